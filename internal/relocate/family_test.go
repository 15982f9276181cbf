package relocate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name, stem, ext string
	}{
		{"IMG_1.JPG", "IMG_1", ".JPG"},
		{"a.tar.gz", "a.tar", ".gz"},
		{"README", "README", ""},
		{".hidden", "", ".hidden"},
	}
	for _, tt := range tests {
		stem, ext := splitName(tt.name)
		if stem != tt.stem || ext != tt.ext {
			t.Errorf("splitName(%q) = %q, %q; want %q, %q", tt.name, stem, ext, tt.stem, tt.ext)
		}
	}
}

func TestFamilyOf(t *testing.T) {
	names := []string{"A.CR2", "A.JPG", "A.jpg.xmp", "AB.JPG", "a.JPG"}
	f := familyOf("/d", names, "A")
	if diff := cmp.Diff([]string{"A.CR2", "A.JPG"}, f.names); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
	if f.path("A.CR2") != "/d/A.CR2" {
		t.Errorf("path = %s", f.path("A.CR2"))
	}
	if !familyOf("/d", names, "Z").empty() {
		t.Error("family Z should be empty")
	}
}

func TestFamilyMatch(t *testing.T) {
	f := family{names: []string{"X.jpg", "X.JPG", "X.cr2"}}

	tests := []struct {
		ext    string
		want   string
		wantOK bool
	}{
		{".JPG", "X.JPG", true},
		{".jpg", "X.jpg", true},
		{".CR2", "X.cr2", true},
		{".png", "", false},
	}
	for _, tt := range tests {
		got, ok := f.match(tt.ext)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("match(%q) = %q, %v; want %q, %v", tt.ext, got, ok, tt.want, tt.wantOK)
		}
	}
}
