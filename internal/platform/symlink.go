package platform

import "os"

// Symlink creates a symbolic link at link pointing to target. The dir
// flag says whether the link target is a directory, for platforms whose
// syscalls distinguish file and directory links; unix has a single call
// and ignores it.
func Symlink(target, link string, dir bool) error {
	_ = dir
	return os.Symlink(target, link)
}
