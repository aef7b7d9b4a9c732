//go:build linux || freebsd || netbsd || openbsd

package platform

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Trash moves path into the freedesktop.org trash under $XDG_DATA_HOME,
// writing the .trashinfo record before the rename so a crash never leaves
// an orphaned file without provenance.
//
// Only the home trash is supported. An entry on a different filesystem
// cannot be renamed into it and fails with EXDEV; the per-mount
// $topdir/.Trash-$uid layout is not implemented.
func Trash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	trashDir := filepath.Join(xdg.DataHome, "Trash")
	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create trash dir %s: %w", dir, err)
		}
	}

	name, info, err := reserveTrashName(filesDir, infoDir, filepath.Base(abs))
	if err != nil {
		return err
	}

	record := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: abs}).EscapedPath(), time.Now().Format("2006-01-02T15:04:05"))
	if _, err := info.WriteString(record); err != nil {
		info.Close()
		_ = os.Remove(info.Name())
		return err
	}
	if err := info.Close(); err != nil {
		_ = os.Remove(info.Name())
		return err
	}

	if err := os.Rename(abs, filepath.Join(filesDir, name)); err != nil {
		_ = os.Remove(info.Name())
		return fmt.Errorf("trash %s: %w", path, err)
	}
	return nil
}

// reserveTrashName picks a free name in the trash and claims it by
// exclusively creating the matching .trashinfo file.
func reserveTrashName(filesDir, infoDir, base string) (string, *os.File, error) {
	name := base
	for i := 1; ; i++ {
		infoPath := filepath.Join(infoDir, name+".trashinfo")
		f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			if _, serr := os.Lstat(filepath.Join(filesDir, name)); serr != nil {
				return name, f, nil
			}
			f.Close()
			_ = os.Remove(infoPath)
		} else if !os.IsExist(err) {
			return "", nil, err
		}
		name = fmt.Sprintf("%s.%d", base, i)
	}
}
