// Package testutil provides shared test helpers for building file families
// on disk and asserting where they ended up.
package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteFiles creates each name under dir (parents included) with the name
// itself as content, so every file is byte-distinct.
func WriteFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// Link hard-links newname to oldname, skipping the test where the file
// system has no hard links.
func Link(t *testing.T, oldname, newname string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(newname), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Link(oldname, newname); err != nil {
		t.Skipf("hard links unsupported: %v", err)
	}
}

// Content returns the content of path or fails the test.
func Content(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

// AssertContent fails unless path holds want.
func AssertContent(t *testing.T, path, want string) {
	t.Helper()
	if got := Content(t, path); got != want {
		t.Errorf("%s content = %q, want %q", path, got, want)
	}
}

// AssertMissing fails if path exists.
func AssertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("%s should not exist (err=%v)", path, err)
	}
}

// Tree lists every regular file under root as a sorted slash-separated
// relative path.
func Tree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(out)
	return out
}
