// Package agent loads and resolves Agent Client Protocol agent
// descriptors: embedded defaults, bundled-with-the-app entries, and
// user-overridden entries under <config_dir>/agents/, merged by a
// stable "identity" key.
package agent

// Config is a single agent's descriptor, as loaded from TOML.
type Config struct {
	Identity          string                       `toml:"identity"`
	Name              string                       `toml:"name"`
	ShortName         string                       `toml:"short_name"`
	Protocol          string                       `toml:"protocol"`
	Type              string                       `toml:"type"`
	Active            *bool                        `toml:"active"`
	RunCommand        map[string]string            `toml:"run_command"`
	Env               map[string]string             `toml:"env"`
	InstallCommand    string                       `toml:"install_command"`
	Actions           map[string]map[string]Action `toml:"actions"`
	ConnectorInstalled bool                         `toml:"-"`
}

// Action describes one named agent action (e.g. a context-menu entry).
type Action struct {
	Command     string `toml:"command"`
	Description string `toml:"description"`
}

// IsActive reports whether the agent should be offered, defaulting to
// true when the TOML document omits the field.
func (c *Config) IsActive() bool {
	if c.Active == nil {
		return true
	}
	return *c.Active
}

// applyDefaults fills protocol/type with their TOML defaults, mirroring
// serde's #[serde(default = "...")] fields in the Rust descriptor.
func (c *Config) applyDefaults() {
	if c.Protocol == "" {
		c.Protocol = "acp"
	}
	if c.Type == "" {
		c.Type = "coding"
	}
}
