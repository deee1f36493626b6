package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadLastWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("XDG_DATA_HOME", dir)
	defer os.Unsetenv("XDG_DATA_HOME")

	if err := SaveLastWorkingDirectory("/some/project"); err != nil {
		t.Fatal(err)
	}

	got := LoadLastWorkingDirectory()
	if got != "/some/project" {
		t.Errorf("unexpected last working directory %q", got)
	}

	path, err := StateFilePath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != filepath.Join(dir, "par-term") {
		t.Errorf("unexpected state file path %q", path)
	}
}

func TestLoadLastWorkingDirectoryMissingFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("XDG_DATA_HOME", dir)
	defer os.Unsetenv("XDG_DATA_HOME")

	if got := LoadLastWorkingDirectory(); got != "" {
		t.Errorf("expected empty string for missing state file, got %q", got)
	}
}
