package prettifier

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v2"
)

func TestYamlConfigDefaults(t *testing.T) {
	c := DefaultYamlConfig()
	if !c.RespectAlternateScreen {
		t.Error("expected RespectAlternateScreen true")
	}
	if !c.PerBlockToggle {
		t.Error("expected PerBlockToggle true")
	}
	if c.GlobalToggleKey != "Ctrl+Shift+P" {
		t.Errorf("unexpected GlobalToggleKey %q", c.GlobalToggleKey)
	}
	if len(c.CustomRenderers) != 0 {
		t.Error("expected no custom renderers")
	}
	if len(c.DetectionRules) != 0 {
		t.Error("expected no detection rules")
	}
}

func TestDetectionConfigDefaults(t *testing.T) {
	c := DefaultDetectionConfig()
	if c.Scope != "all" {
		t.Errorf("unexpected scope %q", c.Scope)
	}
	if c.ConfidenceThreshold != 0.6 {
		t.Errorf("unexpected confidence threshold %v", c.ConfidenceThreshold)
	}
	if c.MaxScanLines != 500 {
		t.Errorf("unexpected max scan lines %d", c.MaxScanLines)
	}
	if c.DebounceMs != 100 {
		t.Errorf("unexpected debounce ms %d", c.DebounceMs)
	}
}

func TestRendererToggleDefaults(t *testing.T) {
	toggle := DefaultRendererToggle()
	if !toggle.Enabled {
		t.Error("expected enabled true")
	}
	if toggle.Priority != 50 {
		t.Errorf("unexpected priority %d", toggle.Priority)
	}
}

func TestRenderersConfigDefaults(t *testing.T) {
	c := DefaultRenderersConfig()
	if !c.Markdown.Enabled || !c.JSON.Enabled || !c.Diff.Enabled || !c.Diagrams.Enabled {
		t.Error("expected all built-in renderers enabled by default")
	}
}

func TestClipboardConfigDefaults(t *testing.T) {
	c := DefaultClipboardConfig()
	if c.DefaultCopy != "rendered" {
		t.Errorf("unexpected default copy %q", c.DefaultCopy)
	}
}

func TestClaudeCodeConfigDefaults(t *testing.T) {
	c := DefaultClaudeCodeConfig()
	if !c.AutoDetect || !c.RenderMarkdown || !c.RenderDiffs || !c.AutoRenderOnExpand || !c.ShowFormatBadges {
		t.Error("expected all claude code integration flags true by default")
	}
}

func TestCacheConfigDefaults(t *testing.T) {
	c := DefaultCacheConfig()
	if c.MaxEntries != 64 {
		t.Errorf("unexpected max entries %d", c.MaxEntries)
	}
}

func TestYamlDeserializationEmpty(t *testing.T) {
	var c YamlConfig
	if err := yaml.Unmarshal([]byte("{}"), &c); err != nil {
		t.Fatal(err)
	}
	if !c.RespectAlternateScreen {
		t.Error("expected default RespectAlternateScreen true")
	}
	if c.Detection.Scope != "all" {
		t.Errorf("unexpected scope %q", c.Detection.Scope)
	}
}

func TestYamlDeserializationPartial(t *testing.T) {
	doc := `
detection:
  scope: "all"
  confidence_threshold: 0.8
renderers:
  markdown:
    enabled: false
  json:
    priority: 100
`
	var c YamlConfig
	if err := yaml.Unmarshal([]byte(doc), &c); err != nil {
		t.Fatal(err)
	}
	if c.Detection.Scope != "all" {
		t.Errorf("unexpected scope %q", c.Detection.Scope)
	}
	if c.Detection.ConfidenceThreshold != 0.8 {
		t.Errorf("unexpected confidence threshold %v", c.Detection.ConfidenceThreshold)
	}
	if c.Renderers.Markdown.Enabled {
		t.Error("expected markdown disabled")
	}
	if c.Renderers.JSON.Priority != 100 {
		t.Errorf("unexpected json priority %d", c.Renderers.JSON.Priority)
	}
	if !c.Renderers.YAML.Enabled {
		t.Error("expected unspecified renderer (yaml) to keep its default")
	}
}

func TestYamlDeserializationCustomRenderers(t *testing.T) {
	doc := `
custom_renderers:
  - id: "protobuf"
    name: "Protocol Buffers"
    detect_patterns: ["^message\\s+\\w+"]
    render_command: "protoc --decode_raw"
    priority: 30
`
	var c YamlConfig
	if err := yaml.Unmarshal([]byte(doc), &c); err != nil {
		t.Fatal(err)
	}
	if len(c.CustomRenderers) != 1 {
		t.Fatalf("expected 1 custom renderer, got %d", len(c.CustomRenderers))
	}
	if c.CustomRenderers[0].ID != "protobuf" {
		t.Errorf("unexpected id %q", c.CustomRenderers[0].ID)
	}
	if c.CustomRenderers[0].Priority != 30 {
		t.Errorf("unexpected priority %d", c.CustomRenderers[0].Priority)
	}
}

func TestYamlDeserializationDetectionRules(t *testing.T) {
	doc := `
detection_rules:
  markdown:
    additional:
      - id: "md_custom_fence"
        pattern: "^` + "```" + `custom"
        weight: 0.4
        scope: "first_lines:5"
    overrides:
      - id: "md_atx_header"
        enabled: false
`
	var c YamlConfig
	if err := yaml.Unmarshal([]byte(doc), &c); err != nil {
		t.Fatal(err)
	}
	rules, ok := c.DetectionRules["markdown"]
	if !ok {
		t.Fatal("expected markdown detection rules")
	}
	if len(rules.Additional) != 1 || rules.Additional[0].ID != "md_custom_fence" {
		t.Fatalf("unexpected additional rules %+v", rules.Additional)
	}
	if len(rules.Overrides) != 1 || rules.Overrides[0].Enabled == nil || *rules.Overrides[0].Enabled {
		t.Fatalf("unexpected overrides %+v", rules.Overrides)
	}
}

func TestConfigOverrideDefaultsAreAllNil(t *testing.T) {
	var o ConfigOverride
	if o.RespectAlternateScreen != nil || o.PerBlockToggle != nil || o.Detection != nil ||
		o.Renderers != nil || o.ClaudeCodeIntegration != nil {
		t.Error("expected every override field to default to nil (inherit)")
	}
}

func TestConfigOverrideSerializationSkipsNilFields(t *testing.T) {
	var o ConfigOverride
	out, err := yaml.Marshal(&o)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(out)) != "{}" {
		t.Fatalf("expected empty YAML document, got %q", out)
	}
}
