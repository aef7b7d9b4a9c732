//go:build linux

package platform

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// IsRetryableCopyErr reports whether err is one of the transient kernel
// errors seen when copying across filesystems that are touchy about
// permissions or extended attributes: EPERM, or ENODATA for a missing
// attribute. These are retried with a bounded budget before turning fatal.
func IsRetryableCopyErr(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return errno == unix.EPERM || errno == unix.ENODATA
}
