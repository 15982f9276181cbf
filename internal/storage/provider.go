// Package storage defines the file-system operations the relocation engine
// depends on.
package storage

// Provider is the interface for the directory and move primitives used when
// relocating file families. Paths are ordinary OS paths.
type Provider interface {
	// List returns the names of the non-directory entries of dir. A missing
	// dir yields an empty list and no error.
	List(dir string) ([]string, error)
	// Entries is List with directories included.
	Entries(dir string) ([]string, error)
	// Exists reports whether path exists (without following a final symlink).
	Exists(path string) (bool, error)
	// Identical reports whether a and b denote the same underlying file.
	// A missing path is never identical to anything.
	Identical(a, b string) (bool, error)
	// MkdirAll creates dir and any missing parents.
	MkdirAll(dir string) error
	// Move renames oldPath to newPath and fails rather than replace an
	// existing newPath where the platform allows it.
	Move(oldPath, newPath string) error
}
