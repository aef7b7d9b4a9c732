package fileop

import (
	"io/fs"
	"path/filepath"
)

// CalculateSize sums the lengths of all non-directory entries under root,
// root itself included when it is a file. Unreadable entries are skipped;
// the result feeds progress totals, not accounting.
func CalculateSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total
}
