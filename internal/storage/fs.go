package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// FS implements Provider backed by the local file system.
type FS struct{}

// NewFS creates a new FS provider.
func NewFS() *FS {
	return &FS{}
}

// List returns the sorted names of the non-directory entries in dir.
func (f *FS) List(dir string) ([]string, error) {
	return readDir(dir, false)
}

// Entries returns the sorted names of every entry in dir.
func (f *FS) Entries(dir string) ([]string, error) {
	return readDir(dir, true)
}

func readDir(dir string, withDirs bool) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: list %s: %w", dir, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !withDirs {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// Exists reports whether path is present.
func (f *FS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("storage: stat %s: %w", path, err)
	}
}

// Identical compares device and inode (os.SameFile), so two hard links to
// the same data are identical while two byte-equal copies are not.
func (f *FS) Identical(a, b string) (bool, error) {
	ia, err := os.Lstat(a)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat %s: %w", a, err)
	}
	ib, err := os.Lstat(b)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat %s: %w", b, err)
	}
	return os.SameFile(ia, ib), nil
}

// MkdirAll creates dir with mode 0o755.
func (f *FS) MkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	return nil
}

// Move renames oldPath to newPath. ErrDestinationExists is returned when the
// no-replace rename finds newPath already taken.
func (f *FS) Move(oldPath, newPath string) error {
	if err := renameNoReplace(oldPath, newPath); err != nil {
		if errors.Is(err, ErrDestinationExists) {
			return err
		}
		return fmt.Errorf("storage: move: %w", err)
	}
	return nil
}

// ErrDestinationExists is returned by Move when newPath appeared after the
// caller checked for it.
var ErrDestinationExists = errors.New("storage: destination exists")
