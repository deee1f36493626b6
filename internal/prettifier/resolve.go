package prettifier

// ResolvedConfig is the flattened, override-applied prettifier
// configuration that the detector and renderer registry actually consult.
// Every field here is concrete (no more Option/pointer semantics) since
// resolution has already decided what inherits and what doesn't.
type ResolvedConfig struct {
	Enabled                bool
	RespectAlternateScreen bool
	PerBlockToggle         bool
	Detection              DetectionConfig
	Clipboard              ClipboardConfig
	Renderers              RenderersConfig
	ClaudeCodeIntegration  ClaudeCodeConfig
	Cache                  CacheConfig
}

// ResolveConfig merges a global YamlConfig with an optional profile
// ConfigOverride into a ResolvedConfig.
//
// The top-level enabled flag is profile-replace, not AND: a profile that
// sets an override wins outright, in either direction, so a profile can
// force the prettifier on even when the global default is off. Every other
// field is per-field inherit-when-omitted: an override struct that's
// present but leaves a given field nil still inherits that one field from
// global.
func ResolveConfig(globalEnabled bool, global *YamlConfig, profileEnabled *bool, profile *ConfigOverride) *ResolvedConfig {
	enabled := globalEnabled
	if profileEnabled != nil {
		enabled = *profileEnabled
	}

	resolved := &ResolvedConfig{
		Enabled:                enabled,
		RespectAlternateScreen: global.RespectAlternateScreen,
		PerBlockToggle:         global.PerBlockToggle,
		Detection:              global.Detection,
		Clipboard:              global.Clipboard,
		Renderers:              global.Renderers,
		ClaudeCodeIntegration:  global.ClaudeCodeIntegration,
		Cache:                  global.Cache,
	}
	if profile == nil {
		return resolved
	}

	if profile.RespectAlternateScreen != nil {
		resolved.RespectAlternateScreen = *profile.RespectAlternateScreen
	}
	if profile.PerBlockToggle != nil {
		resolved.PerBlockToggle = *profile.PerBlockToggle
	}
	if profile.Detection != nil {
		resolved.Detection = resolveDetection(global.Detection, profile.Detection)
	}
	if profile.Renderers != nil {
		resolved.Renderers = resolveRenderers(global.Renderers, profile.Renderers)
	}
	if profile.ClaudeCodeIntegration != nil {
		resolved.ClaudeCodeIntegration = resolveClaudeCode(global.ClaudeCodeIntegration, profile.ClaudeCodeIntegration)
	}
	return resolved
}

func resolveDetection(global DetectionConfig, override *DetectionConfigOverride) DetectionConfig {
	out := global
	if override.Scope != nil {
		out.Scope = *override.Scope
	}
	if override.ConfidenceThreshold != nil {
		out.ConfidenceThreshold = *override.ConfidenceThreshold
	}
	if override.MaxScanLines != nil {
		out.MaxScanLines = *override.MaxScanLines
	}
	if override.DebounceMs != nil {
		out.DebounceMs = *override.DebounceMs
	}
	return out
}

func resolveClaudeCode(global ClaudeCodeConfig, override *ClaudeCodeConfigOverride) ClaudeCodeConfig {
	out := global
	if override.AutoDetect != nil {
		out.AutoDetect = *override.AutoDetect
	}
	if override.RenderMarkdown != nil {
		out.RenderMarkdown = *override.RenderMarkdown
	}
	if override.RenderDiffs != nil {
		out.RenderDiffs = *override.RenderDiffs
	}
	if override.AutoRenderOnExpand != nil {
		out.AutoRenderOnExpand = *override.AutoRenderOnExpand
	}
	if override.ShowFormatBadges != nil {
		out.ShowFormatBadges = *override.ShowFormatBadges
	}
	return out
}

func resolveToggle(global RendererToggle, override *RendererToggleOverride) RendererToggle {
	out := global
	if override == nil {
		return out
	}
	if override.Enabled != nil {
		out.Enabled = *override.Enabled
	}
	if override.Priority != nil {
		out.Priority = *override.Priority
	}
	return out
}

func resolveRenderers(global RenderersConfig, override *RenderersConfigOverride) RenderersConfig {
	out := global
	out.Markdown = resolveToggle(global.Markdown, override.Markdown)
	out.JSON = resolveToggle(global.JSON, override.JSON)
	out.YAML = resolveToggle(global.YAML, override.YAML)
	out.TOML = resolveToggle(global.TOML, override.TOML)
	out.XML = resolveToggle(global.XML, override.XML)
	out.CSV = resolveToggle(global.CSV, override.CSV)
	out.Log = resolveToggle(global.Log, override.Log)
	out.SQL = resolveToggle(global.SQL, override.SQL)
	out.StackTrace = resolveToggle(global.StackTrace, override.StackTrace)
	out.Diff.RendererToggle = resolveToggle(global.Diff.RendererToggle, override.Diff)
	out.Diagrams.RendererToggle = resolveToggle(global.Diagrams.RendererToggle, override.Diagrams)
	return out
}
