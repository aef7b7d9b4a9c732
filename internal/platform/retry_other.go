//go:build !linux && !darwin && !freebsd && !netbsd

package platform

// IsRetryableCopyErr reports whether err is a transient copy error. No
// retryable errno class is known for this platform.
func IsRetryableCopyErr(err error) bool {
	return false
}
