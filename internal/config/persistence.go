package config

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigFilePath returns <ConfigDir>/config.yaml. InitConfigDir must have
// run first so ConfigDir is populated.
func ConfigFilePath() string {
	return filepath.Join(ConfigDir, "config.yaml")
}

// LoadConfigYAML reads config.yaml, applying ${VAR} substitution before
// the caller decodes it as YAML. Returns the substituted contents and
// whether the file existed at all (false means the caller should fall
// back to defaults and then Save them).
func LoadConfigYAML() (contents string, existed bool, err error) {
	path := ConfigFilePath()
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	warnInsecurePermissions(path)

	allowAll := PreScanAllowAllEnvVars(string(raw))
	return SubstituteEnvVars(string(raw), allowAll), true, nil
}

// SaveConfigYAML atomically writes yamlBytes to config.yaml (write to a
// sibling .tmp file, then rename), creating the config directory first if
// needed.
func SaveConfigYAML(yamlBytes []byte) error {
	path := ConfigFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, yamlBytes, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// warnInsecurePermissions logs a warning if path is group- or
// world-readable, since config.yaml can hold SSH identity paths, trigger
// commands, and other values a shared system's other users shouldn't see.
// Windows ACLs don't map onto the POSIX mode bits this checks, so the
// check is a no-op there.
func warnInsecurePermissions(path string) {
	if runtime.GOOS == "windows" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	mode := info.Mode().Perm()
	if mode&0o044 != 0 {
		log.Printf("par-term: config file %s has insecure permissions (mode %04o); "+
			"it is readable by group or others. Run: chmod 600 %s", path, mode, path)
	}
}
