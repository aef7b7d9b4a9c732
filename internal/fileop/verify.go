package fileop

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/zeebo/blake3"
)

// hashFile returns the hex BLAKE3 digest of the file at path.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// verifyPaste compares source and destination digests after a completed
// copy. A source that vanished after the copy finished is the usual
// tolerated race, not a mismatch.
func verifyPaste(from, to string) error {
	want, err := hashFile(from)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	got, err := hashFile(to)
	if err != nil {
		return err
	}
	if want != got {
		return fmt.Errorf("verify %s: checksum mismatch", to)
	}
	return nil
}
