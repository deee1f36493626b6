package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitWritesToConfigDirLogFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatal(err)
	}

	Printf("hello %s", "world")

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("expected log file to contain the logged message")
	}
}

func TestInitFailsOnUnwritableDir(t *testing.T) {
	if err := Init(filepath.Join(t.TempDir(), "does", "not", "exist")); err == nil {
		t.Error("expected an error opening a log file in a non-existent directory")
	}
}
