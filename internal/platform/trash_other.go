//go:build !linux && !freebsd && !netbsd && !openbsd && !darwin

package platform

import "fmt"

func Trash(path string) error {
	return fmt.Errorf("trash %s: not supported on this platform", path)
}
