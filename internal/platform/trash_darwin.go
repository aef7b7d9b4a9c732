//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Trash asks the Finder to delete path, which routes through
// NSFileManager so the entry is restorable with "Put Back". A plain
// rename into ~/.Trash would lose that metadata.
func Trash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	script := fmt.Sprintf("tell application %q to delete POSIX file %q", "Finder", abs)
	out, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("trash %s: %s: %w", path, strings.TrimSpace(string(out)), err)
	}
	return nil
}
