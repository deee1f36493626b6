package prettifier

// RendererToggle is the enable/priority pair shared by every built-in
// renderer. Renderers are tried in descending priority order; a tie keeps
// declaration order (the order the fields are listed in RenderersConfig).
type RendererToggle struct {
	Enabled  bool `yaml:"enabled"`
	Priority int  `yaml:"priority"`
}

func DefaultRendererToggle() RendererToggle {
	return RendererToggle{Enabled: true, Priority: defaultRendererPriority}
}

func (t *RendererToggle) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain RendererToggle
	defaults := plain(DefaultRendererToggle())
	if err := unmarshal(&defaults); err != nil {
		return err
	}
	*t = RendererToggle(defaults)
	return nil
}

// RendererToggleOverride is the profile-level override for a RendererToggle.
type RendererToggleOverride struct {
	Enabled  *bool `yaml:"enabled,omitempty"`
	Priority *int  `yaml:"priority,omitempty"`
}

// DiffRendererConfig extends the base toggle with diff-specific rendering
// knobs: how many lines of unchanged context to keep around a hunk, and
// whether added/removed lines get syntax-highlighted in place.
type DiffRendererConfig struct {
	RendererToggle  `yaml:",inline"`
	ContextLines    int  `yaml:"context_lines"`
	SyntaxHighlight bool `yaml:"syntax_highlight"`
}

func DefaultDiffRendererConfig() DiffRendererConfig {
	return DiffRendererConfig{
		RendererToggle:  DefaultRendererToggle(),
		ContextLines:    3,
		SyntaxHighlight: true,
	}
}

func (c *DiffRendererConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain DiffRendererConfig
	defaults := plain(DefaultDiffRendererConfig())
	if err := unmarshal(&defaults); err != nil {
		return err
	}
	*c = DiffRendererConfig(defaults)
	return nil
}

// DiagramRendererConfig extends the base toggle with the diagram engine
// selection. No diagram renderer is registered in this package; these
// settings are only loaded and resolved.
type DiagramRendererConfig struct {
	RendererToggle `yaml:",inline"`
	Engine         string `yaml:"engine"`
	MaxNodes       int    `yaml:"max_nodes"`
}

func DefaultDiagramRendererConfig() DiagramRendererConfig {
	return DiagramRendererConfig{
		RendererToggle: DefaultRendererToggle(),
		Engine:         "mermaid-subset",
		MaxNodes:       64,
	}
}

func (c *DiagramRendererConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain DiagramRendererConfig
	defaults := plain(DefaultDiagramRendererConfig())
	if err := unmarshal(&defaults); err != nil {
		return err
	}
	*c = DiagramRendererConfig(defaults)
	return nil
}

// RenderersConfig holds the per-format enable/priority settings for every
// built-in renderer.
type RenderersConfig struct {
	Markdown   RendererToggle        `yaml:"markdown"`
	JSON       RendererToggle        `yaml:"json"`
	YAML       RendererToggle        `yaml:"yaml"`
	TOML       RendererToggle        `yaml:"toml"`
	XML        RendererToggle        `yaml:"xml"`
	CSV        RendererToggle        `yaml:"csv"`
	Log        RendererToggle        `yaml:"log"`
	SQL        RendererToggle        `yaml:"sql"`
	StackTrace RendererToggle        `yaml:"stack_trace"`
	Diff       DiffRendererConfig    `yaml:"diff"`
	Diagrams   DiagramRendererConfig `yaml:"diagrams"`
}

func DefaultRenderersConfig() RenderersConfig {
	return RenderersConfig{
		Markdown:   DefaultRendererToggle(),
		JSON:       DefaultRendererToggle(),
		YAML:       DefaultRendererToggle(),
		TOML:       DefaultRendererToggle(),
		XML:        DefaultRendererToggle(),
		CSV:        DefaultRendererToggle(),
		Log:        DefaultRendererToggle(),
		SQL:        DefaultRendererToggle(),
		StackTrace: DefaultRendererToggle(),
		Diff:       DefaultDiffRendererConfig(),
		Diagrams:   DefaultDiagramRendererConfig(),
	}
}

func (c *RenderersConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain RenderersConfig
	defaults := plain(DefaultRenderersConfig())
	if err := unmarshal(&defaults); err != nil {
		return err
	}
	*c = RenderersConfig(defaults)
	return nil
}

// RenderersConfigOverride is the profile-level override for RenderersConfig.
// Each field is itself optional; an unset renderer inherits the global
// toggle for that renderer wholesale.
type RenderersConfigOverride struct {
	Markdown   *RendererToggleOverride `yaml:"markdown,omitempty"`
	JSON       *RendererToggleOverride `yaml:"json,omitempty"`
	YAML       *RendererToggleOverride `yaml:"yaml,omitempty"`
	TOML       *RendererToggleOverride `yaml:"toml,omitempty"`
	XML        *RendererToggleOverride `yaml:"xml,omitempty"`
	CSV        *RendererToggleOverride `yaml:"csv,omitempty"`
	Log        *RendererToggleOverride `yaml:"log,omitempty"`
	SQL        *RendererToggleOverride `yaml:"sql,omitempty"`
	StackTrace *RendererToggleOverride `yaml:"stack_trace,omitempty"`
	Diff       *RendererToggleOverride `yaml:"diff,omitempty"`
	Diagrams   *RendererToggleOverride `yaml:"diagrams,omitempty"`
}

// CustomRendererConfig describes a user-defined renderer that shells out to
// an external command (e.g. "protoc --decode_raw") to render content that
// matches one of its detect patterns. See YamlConfig.AllowedCommands for the
// gate that controls which render_command values are actually permitted to
// run.
type CustomRendererConfig struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	DetectPatterns []string `yaml:"detect_patterns"`
	RenderCommand  string   `yaml:"render_command"`
	Priority       int      `yaml:"priority"`
}

// UserDetectionRule adds an extra detection heuristic for a format beyond
// its built-in rule set.
type UserDetectionRule struct {
	ID      string  `yaml:"id"`
	Pattern string  `yaml:"pattern"`
	Weight  float32 `yaml:"weight"`
	Scope   string  `yaml:"scope"`
}

// RuleOverride disables (or re-enables) one of a format's built-in
// detection rules by id.
type RuleOverride struct {
	ID      string `yaml:"id"`
	Enabled *bool  `yaml:"enabled,omitempty"`
}

// FormatDetectionRulesConfig is the per-format entry of YamlConfig's
// detection_rules map: additional user rules plus overrides of the built-in
// ones, both keyed by the format's id (e.g. "markdown").
type FormatDetectionRulesConfig struct {
	Additional []UserDetectionRule `yaml:"additional"`
	Overrides  []RuleOverride      `yaml:"overrides"`
}
