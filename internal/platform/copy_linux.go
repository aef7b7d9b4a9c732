//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// copyStream transfers src to dst with copy_file_range, reporting progress
// per block. Filesystems that reject the syscall (ENOSYS, EXDEV, EINVAL,
// ENOTSUP) fall through to the buffered read/write loop, but only before
// the first byte moved.
func copyStream(src, dst *os.File, ch chan<- CopyChunk) error {
	var total int64
	for {
		n, err := unix.CopyFileRange(int(src.Fd()), nil, int(dst.Fd()), nil, copyBlockSize, 0)
		if err != nil {
			if total == 0 && isFallbackErr(err) {
				return copyReadWrite(src, dst, ch)
			}
			return err
		}
		if n == 0 {
			return nil
		}
		total += int64(n)
		ch <- CopyChunk{Bytes: int64(n)}
	}
}

func isFallbackErr(err error) bool {
	switch err {
	case unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP:
		return true
	}
	if e, ok := err.(*os.PathError); ok {
		return isFallbackErr(e.Err)
	}
	return false
}
