package config

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"
)

// SessionState is the small, separately-persisted file that survives
// across process restarts independent of config.yaml: currently just the
// last working directory, used by the "previous session" startup-directory
// mode.
type SessionState struct {
	LastWorkingDirectory string `yaml:"last_working_directory,omitempty"`
}

// StateFilePath returns <xdg_data_home>/par-term/state.yaml, creating
// nothing.
func StateFilePath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "par-term", "state.yaml"), nil
}

// SaveLastWorkingDirectory atomically writes dir to the state file
// (write-to-temp, then rename), so a reader never observes a partially
// written file.
func SaveLastWorkingDirectory(dir string) error {
	path, err := StateFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	out, err := yaml.Marshal(&SessionState{LastWorkingDirectory: dir})
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadLastWorkingDirectory reads the state file's last working directory.
// A missing file or any read/parse error is treated as "no prior
// directory" rather than a fatal error — this is a best-effort convenience,
// not a source of truth.
func LoadLastWorkingDirectory() string {
	path, err := StateFilePath()
	if err != nil {
		return ""
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var state SessionState
	if err := yaml.Unmarshal(contents, &state); err != nil {
		return ""
	}
	return state.LastWorkingDirectory
}
