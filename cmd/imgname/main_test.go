package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/starford/imgname/internal/testutil"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out
	cmd.ErrWriter = io.Discard
	err := cmd.Run(context.Background(), append([]string{"imgname"}, args...))
	return out.String(), err
}

func TestCLI_GetName(t *testing.T) {
	out, err := runCLI(t, "get-name", "2024:06:11 06:32:30")
	if err != nil {
		t.Fatal(err)
	}
	if out != "2024:06:11 06:32:30 -> YFB23550\n" {
		t.Errorf("output = %q", out)
	}
}

func TestCLI_RenameFromFilename(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, "IMG_20240611_063230.jpg")

	if _, err := runCLI(t, "rename", "-n", filepath.Join(dir, "IMG_20240611_063230.jpg")); err != nil {
		t.Fatal(err)
	}
	testutil.AssertContent(t, filepath.Join(dir, "YFB23550.jpg"), "IMG_20240611_063230.jpg")
}

func TestCLI_OffsetAndDryRun(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, "IMG_20240611_063230.jpg")
	src := filepath.Join(dir, "IMG_20240611_063230.jpg")

	out, err := runCLI(t, "--offset", "1", "--dry-run", "rename-move", "--filename", src)
	if err != nil {
		t.Fatal(err)
	}
	want := src + " -> " + filepath.Join(dir, "2024-06-11", "YFB27150.jpg") + " (dry run)\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	testutil.AssertContent(t, src, "IMG_20240611_063230.jpg")
}

func TestCLI_UsageErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.jpg")
	tests := []struct {
		name string
		args []string
	}{
		{"exclusive strategies", []string{"rename", "-f", "-n", file}},
		{"offset out of range", []string{"--offset", "24", "get-name", "x"}},
		{"bad log level", []string{"--log-level", "loud", "get-name", "x"}},
		{"no files", []string{"move"}},
		{"bad watch mode", []string{"watch", "--mode", "copy", "."}},
		{"missing config file", []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "rename", file}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCLI_AllFailedIsAnError(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, "holiday.jpg")

	out, err := runCLI(t, "rename", "--filename", filepath.Join(dir, "holiday.jpg"))
	if err == nil {
		t.Fatal("expected an error when every file fails")
	}
	if out == "" {
		t.Error("the failure should still be reported")
	}
}
