package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadConfigYAMLRoundTrips(t *testing.T) {
	ConfigDir = t.TempDir()

	if err := SaveConfigYAML([]byte("respect_alternate_screen: true\n")); err != nil {
		t.Fatal(err)
	}

	contents, existed, err := LoadConfigYAML()
	if err != nil {
		t.Fatal(err)
	}
	if !existed {
		t.Fatal("expected config file to exist after save")
	}
	if contents != "respect_alternate_screen: true\n" {
		t.Errorf("unexpected contents %q", contents)
	}
}

func TestLoadConfigYAMLMissingFileReportsNotExisted(t *testing.T) {
	ConfigDir = t.TempDir()

	_, existed, err := LoadConfigYAML()
	if err != nil {
		t.Fatal(err)
	}
	if existed {
		t.Fatal("expected existed=false for a missing config file")
	}
}

func TestLoadConfigYAMLSubstitutesAllowlistedVars(t *testing.T) {
	ConfigDir = t.TempDir()
	os.Setenv("SHELL", "/bin/zsh")
	defer os.Unsetenv("SHELL")

	if err := SaveConfigYAML([]byte("shell: ${SHELL}\n")); err != nil {
		t.Fatal(err)
	}

	contents, _, err := LoadConfigYAML()
	if err != nil {
		t.Fatal(err)
	}
	if contents != "shell: /bin/zsh\n" {
		t.Errorf("unexpected substituted contents %q", contents)
	}
}

func TestSaveConfigYAMLWritesOwnerOnlyPermissions(t *testing.T) {
	ConfigDir = t.TempDir()
	if err := SaveConfigYAML([]byte("a: 1\n")); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(ConfigDir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("unexpected config file permissions %o", info.Mode().Perm())
	}
}
