package platform

import (
	"io"
	"os"
	"sync"
)

const copyBlockSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, copyBlockSize)
		return &b
	},
}

// copyReadWrite copies data with a pooled buffer, reporting progress per
// block.
func copyReadWrite(src, dst *os.File, ch chan<- CopyChunk) error {
	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	buf := *bufp

	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
			ch <- CopyChunk{Bytes: int64(n)}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
