//go:build darwin || freebsd || netbsd

package platform

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// IsRetryableCopyErr reports whether err is a transient copy error:
// EPERM, or ENOATTR for a missing extended attribute.
func IsRetryableCopyErr(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	return errno == unix.EPERM || errno == unix.ENOATTR
}
