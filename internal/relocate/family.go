package relocate

import (
	"path/filepath"
	"strings"
)

// splitName splits a base name at its last dot. "A.tar.gz" gives "A.tar"
// and ".gz"; a name without a dot has an empty extension.
func splitName(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

// family is the set of entries of one directory sharing an exact stem.
type family struct {
	dir   string
	stem  string
	names []string
}

func familyOf(dir string, names []string, stem string) family {
	f := family{dir: dir, stem: stem}
	for _, n := range names {
		if s, _ := splitName(n); s == stem {
			f.names = append(f.names, n)
		}
	}
	return f
}

func (f family) empty() bool { return len(f.names) == 0 }

func (f family) path(name string) string { return filepath.Join(f.dir, name) }

func (f family) contains(name string) bool {
	for _, n := range f.names {
		if n == name {
			return true
		}
	}
	return false
}

// match returns the member carrying ext, preferring an exact match over a
// case-insensitive one. Relocated members have lowercased extensions, so
// "A.CR2" pairs with "YFB23550.cr2".
func (f family) match(ext string) (string, bool) {
	fallback := ""
	for _, n := range f.names {
		_, e := splitName(n)
		if e == ext {
			return n, true
		}
		if fallback == "" && strings.EqualFold(e, ext) {
			fallback = n
		}
	}
	return fallback, fallback != ""
}
