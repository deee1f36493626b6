// Package prettifier implements the content-prettifier configuration model:
// the YAML-backed global settings under content_prettifier:, per-profile
// overrides, and the resolver that merges the two into a flat, render-ready
// configuration. The renderer registry and the built-in renderers (markdown,
// JSON, diff) live alongside it in this package; the other formats in
// RenderersConfig, diagrams included, have settings but no renderer here.
package prettifier

const (
	defaultGlobalToggleKey   = "Ctrl+Shift+P"
	defaultDetectionScope    = "all"
	defaultConfidenceThresh  = 0.6
	defaultMaxScanLines      = 500
	defaultDebounceMs        = 100
	defaultClipboardCopy     = "rendered"
	defaultCacheMaxEntries   = 64
	defaultRendererPriority  = 50
)

// YamlConfig is the top-level prettifier configuration, loaded from the
// content_prettifier: section of config.yaml.
type YamlConfig struct {
	RespectAlternateScreen bool                              `yaml:"respect_alternate_screen"`
	GlobalToggleKey        string                             `yaml:"global_toggle_key"`
	PerBlockToggle         bool                               `yaml:"per_block_toggle"`
	Detection              DetectionConfig                    `yaml:"detection"`
	Clipboard              ClipboardConfig                    `yaml:"clipboard"`
	Renderers              RenderersConfig                    `yaml:"renderers"`
	CustomRenderers        []CustomRendererConfig             `yaml:"custom_renderers"`
	AllowedCommands        []string                           `yaml:"allowed_commands,omitempty"`
	ClaudeCodeIntegration  ClaudeCodeConfig                    `yaml:"claude_code_integration"`
	DetectionRules         map[string]FormatDetectionRulesConfig `yaml:"detection_rules"`
	Cache                  CacheConfig                         `yaml:"cache"`
}

// DefaultYamlConfig returns the prettifier defaults applied when
// content_prettifier: is absent or partially specified in config.yaml.
func DefaultYamlConfig() YamlConfig {
	return YamlConfig{
		RespectAlternateScreen: true,
		GlobalToggleKey:        defaultGlobalToggleKey,
		PerBlockToggle:         true,
		Detection:              DefaultDetectionConfig(),
		Clipboard:              DefaultClipboardConfig(),
		Renderers:              DefaultRenderersConfig(),
		CustomRenderers:        nil,
		AllowedCommands:        nil,
		ClaudeCodeIntegration:  DefaultClaudeCodeConfig(),
		DetectionRules:         map[string]FormatDetectionRulesConfig{},
		Cache:                  DefaultCacheConfig(),
	}
}

// UnmarshalYAML fills in defaults for any field the document omits, then
// decodes over them, so a YAML document that only sets one nested field
// (e.g. renderers.json.priority) keeps every other default untouched.
func (c *YamlConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain YamlConfig
	defaults := plain(DefaultYamlConfig())
	if err := unmarshal(&defaults); err != nil {
		return err
	}
	*c = YamlConfig(defaults)
	return nil
}

// DetectionConfig controls when and how aggressively the detector scans
// terminal output for prettifiable content.
type DetectionConfig struct {
	// Scope is "command_output", "all", or "manual_only".
	Scope               string  `yaml:"scope"`
	ConfidenceThreshold float32 `yaml:"confidence_threshold"`
	MaxScanLines        int     `yaml:"max_scan_lines"`
	DebounceMs          uint64  `yaml:"debounce_ms"`
}

func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		Scope:               defaultDetectionScope,
		ConfidenceThreshold: defaultConfidenceThresh,
		MaxScanLines:        defaultMaxScanLines,
		DebounceMs:          defaultDebounceMs,
	}
}

func (c *DetectionConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain DetectionConfig
	defaults := plain(DefaultDetectionConfig())
	if err := unmarshal(&defaults); err != nil {
		return err
	}
	*c = DetectionConfig(defaults)
	return nil
}

// ClipboardConfig controls what "copy" actions on a prettified block copy
// by default.
type ClipboardConfig struct {
	// DefaultCopy is "rendered" or "source".
	DefaultCopy string `yaml:"default_copy"`
}

func DefaultClipboardConfig() ClipboardConfig {
	return ClipboardConfig{DefaultCopy: defaultClipboardCopy}
}

func (c *ClipboardConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain ClipboardConfig
	defaults := plain(DefaultClipboardConfig())
	if err := unmarshal(&defaults); err != nil {
		return err
	}
	*c = ClipboardConfig(defaults)
	return nil
}

// ClaudeCodeConfig holds the settings specific to detecting and rendering
// output from a Claude Code agent session running inside the terminal.
type ClaudeCodeConfig struct {
	AutoDetect          bool `yaml:"auto_detect"`
	RenderMarkdown      bool `yaml:"render_markdown"`
	RenderDiffs         bool `yaml:"render_diffs"`
	AutoRenderOnExpand  bool `yaml:"auto_render_on_expand"`
	ShowFormatBadges    bool `yaml:"show_format_badges"`
}

func DefaultClaudeCodeConfig() ClaudeCodeConfig {
	return ClaudeCodeConfig{
		AutoDetect:         true,
		RenderMarkdown:     true,
		RenderDiffs:        true,
		AutoRenderOnExpand: true,
		ShowFormatBadges:   true,
	}
}

func (c *ClaudeCodeConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain ClaudeCodeConfig
	defaults := plain(DefaultClaudeCodeConfig())
	if err := unmarshal(&defaults); err != nil {
		return err
	}
	*c = ClaudeCodeConfig(defaults)
	return nil
}

// CacheConfig bounds the render cache that holds already-rendered blocks so
// scrolling back over a large prettified block doesn't re-render it.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{MaxEntries: defaultCacheMaxEntries}
}

func (c *CacheConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain CacheConfig
	defaults := plain(DefaultCacheConfig())
	if err := unmarshal(&defaults); err != nil {
		return err
	}
	*c = CacheConfig(defaults)
	return nil
}

// ConfigOverride is a profile-level override for the prettifier config.
// Every field is a pointer; nil means "inherit from the global config".
type ConfigOverride struct {
	RespectAlternateScreen *bool                   `yaml:"respect_alternate_screen,omitempty"`
	PerBlockToggle         *bool                   `yaml:"per_block_toggle,omitempty"`
	Detection              *DetectionConfigOverride `yaml:"detection,omitempty"`
	Renderers              *RenderersConfigOverride `yaml:"renderers,omitempty"`
	ClaudeCodeIntegration  *ClaudeCodeConfigOverride `yaml:"claude_code_integration,omitempty"`
}

// DetectionConfigOverride is the profile-level override for DetectionConfig.
type DetectionConfigOverride struct {
	Scope               *string  `yaml:"scope,omitempty"`
	ConfidenceThreshold *float32 `yaml:"confidence_threshold,omitempty"`
	MaxScanLines        *int     `yaml:"max_scan_lines,omitempty"`
	DebounceMs          *uint64  `yaml:"debounce_ms,omitempty"`
}

// ClaudeCodeConfigOverride is the profile-level override for ClaudeCodeConfig.
type ClaudeCodeConfigOverride struct {
	AutoDetect         *bool `yaml:"auto_detect,omitempty"`
	RenderMarkdown     *bool `yaml:"render_markdown,omitempty"`
	RenderDiffs        *bool `yaml:"render_diffs,omitempty"`
	AutoRenderOnExpand *bool `yaml:"auto_render_on_expand,omitempty"`
	ShowFormatBadges   *bool `yaml:"show_format_badges,omitempty"`
}
