package fileop

import (
	"os"
	"path/filepath"
)

// RemoveEmptyDirs removes dir and any now-empty subdirectories, children
// first. Leaf deletions may still be in flight concurrently, so emptiness
// cannot be guaranteed; every removal is best effort and errors are
// discarded.
func RemoveEmptyDirs(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		RemoveEmptyDirs(path)
		_ = os.Remove(path)
	}
	_ = os.Remove(dir)
}
