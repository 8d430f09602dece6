package fileutil_test

// Notes:
// - WriteAtomic rename/chmod failure branches are not tested: forcing them
//   requires platform-specific filesystem setups.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hatlem/getanswers-sub001/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestEnsureDir - Recursive, idempotent directory creation
// ---------------------------------------------------------------------------

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "public", "lead-magnets")

	if err := fileutil.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() first call error: %v", err)
	}
	if err := fileutil.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() second call error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", dir)
	}
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.EnsureDir(filepath.Join(blocker, "sub")); err == nil {
		t.Error("EnsureDir() under a regular file should fail")
	}
}

// ---------------------------------------------------------------------------
// TestWriteAtomic - Temp file + rename
// ---------------------------------------------------------------------------

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "demo.pdf")

	if err := fileutil.WriteAtomic(path, []byte("%PDF-1.7 first")); err != nil {
		t.Fatalf("WriteAtomic() error: %v", err)
	}
	if err := fileutil.WriteAtomic(path, []byte("%PDF-1.7 second")); err != nil {
		t.Fatalf("WriteAtomic() overwrite error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(got) != "%PDF-1.7 second" {
		t.Errorf("content = %q, want second write", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestWriteAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "demo.pdf")
	if err := fileutil.WriteAtomic(path, []byte("x")); err == nil {
		t.Error("WriteAtomic() into missing directory should fail")
	}
	if fileutil.FileExists(path) {
		t.Error("no file should exist after failed write")
	}
}

// ---------------------------------------------------------------------------
// TestHasMarkdownExt / TestIsFilePath
// ---------------------------------------------------------------------------

func TestHasMarkdownExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"guide.md", true},
		{"content/guide.markdown", true},
		{"GUIDE.MD", true},
		{"guide.html", false},
		{"# Heading", false},
		{"notes.md.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.HasMarkdownExt(tt.path); got != tt.want {
				t.Errorf("HasMarkdownExt(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"leadmagnet", false},
		{"./leadmagnet.yaml", true},
		{"configs\\prod", true},
	}

	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.in); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.md")
	if err := os.WriteFile(file, []byte("# a"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false, want true")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true, want false")
	}
	if fileutil.FileExists(filepath.Join(dir, "nope.md")) {
		t.Error("FileExists(missing) = true, want false")
	}
}
