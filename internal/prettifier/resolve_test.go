package prettifier

import "testing"

func boolPtr(b bool) *bool     { return &b }
func f32Ptr(f float32) *float32 { return &f }
func intPtr(i int) *int        { return &i }

func TestResolveNoProfile(t *testing.T) {
	global := DefaultYamlConfig()
	resolved := ResolveConfig(true, &global, nil, nil)

	if !resolved.Enabled {
		t.Error("expected enabled")
	}
	if !resolved.RespectAlternateScreen {
		t.Error("expected respect alternate screen")
	}
	if resolved.Detection.Scope != "all" {
		t.Errorf("unexpected scope %q", resolved.Detection.Scope)
	}
	if !resolved.Renderers.Markdown.Enabled {
		t.Error("expected markdown enabled")
	}
}

func TestResolveProfileOverridesEnabled(t *testing.T) {
	global := DefaultYamlConfig()

	resolved := ResolveConfig(true, &global, boolPtr(false), nil)
	if resolved.Enabled {
		t.Error("expected profile override to force disabled")
	}

	resolved = ResolveConfig(false, &global, boolPtr(true), nil)
	if !resolved.Enabled {
		t.Error("expected profile override to force enabled")
	}
}

func TestResolveProfileOverridesDetection(t *testing.T) {
	global := DefaultYamlConfig()
	profile := &ConfigOverride{
		Detection: &DetectionConfigOverride{
			Scope:               strPtr("all"),
			ConfidenceThreshold: f32Ptr(0.9),
		},
	}

	resolved := ResolveConfig(true, &global, nil, profile)
	if resolved.Detection.Scope != "all" {
		t.Errorf("unexpected scope %q", resolved.Detection.Scope)
	}
	if resolved.Detection.ConfidenceThreshold != 0.9 {
		t.Errorf("unexpected confidence threshold %v", resolved.Detection.ConfidenceThreshold)
	}
	if resolved.Detection.MaxScanLines != 500 {
		t.Errorf("expected inherited max scan lines, got %d", resolved.Detection.MaxScanLines)
	}
	if resolved.Detection.DebounceMs != 100 {
		t.Errorf("expected inherited debounce ms, got %d", resolved.Detection.DebounceMs)
	}
}

func TestResolveProfileOverridesRenderers(t *testing.T) {
	global := DefaultYamlConfig()
	profile := &ConfigOverride{
		Renderers: &RenderersConfigOverride{
			Markdown: &RendererToggleOverride{Enabled: boolPtr(false)},
			JSON:     &RendererToggleOverride{Priority: intPtr(100)},
		},
	}

	resolved := ResolveConfig(true, &global, nil, profile)
	if resolved.Renderers.Markdown.Enabled {
		t.Error("expected markdown disabled")
	}
	if resolved.Renderers.JSON.Priority != 100 {
		t.Errorf("unexpected json priority %d", resolved.Renderers.JSON.Priority)
	}
	if !resolved.Renderers.YAML.Enabled {
		t.Error("expected yaml renderer to inherit global default")
	}
	if !resolved.Renderers.Diff.Enabled {
		t.Error("expected diff renderer to inherit global default")
	}
}

func TestResolveProfileOverridesClaudeCode(t *testing.T) {
	global := DefaultYamlConfig()
	profile := &ConfigOverride{
		ClaudeCodeIntegration: &ClaudeCodeConfigOverride{
			RenderMarkdown: boolPtr(false),
		},
	}

	resolved := ResolveConfig(true, &global, nil, profile)
	if resolved.ClaudeCodeIntegration.RenderMarkdown {
		t.Error("expected render markdown disabled")
	}
	if !resolved.ClaudeCodeIntegration.AutoDetect {
		t.Error("expected auto detect inherited")
	}
	if !resolved.ClaudeCodeIntegration.RenderDiffs {
		t.Error("expected render diffs inherited")
	}
}

func TestResolveInheritsOmittedFields(t *testing.T) {
	global := DefaultYamlConfig()
	global.RespectAlternateScreen = false
	global.PerBlockToggle = false

	profile := &ConfigOverride{
		RespectAlternateScreen: boolPtr(true),
	}

	resolved := ResolveConfig(true, &global, nil, profile)
	if !resolved.RespectAlternateScreen {
		t.Error("expected override to win")
	}
	if resolved.PerBlockToggle {
		t.Error("expected inherited false from global")
	}
}

func strPtr(s string) *string { return &s }
