package prettifier

import "testing"

func TestRegistryDispatchesByPriorityOrder(t *testing.T) {
	cfg := DefaultRenderersConfig()
	cfg.Markdown.Priority = 10
	cfg.JSON.Priority = 90

	reg := NewRegistry(cfg)
	if reg.entries[0].renderer.ID() != "json" {
		t.Fatalf("expected json first (higher priority), got %s", reg.entries[0].renderer.ID())
	}
}

func TestRegistrySkipsDisabledRenderer(t *testing.T) {
	cfg := DefaultRenderersConfig()
	cfg.JSON.Enabled = false
	reg := NewRegistry(cfg)

	_, ok, err := reg.Render(Block{Format: "json", Source: `{"a":1}`})
	if ok || err != nil {
		t.Fatalf("expected no renderer claimed for disabled format, ok=%v err=%v", ok, err)
	}
}

func TestRegistryRendersMatchingFormat(t *testing.T) {
	reg := NewRegistry(DefaultRenderersConfig())
	rendered, ok, err := reg.Render(Block{Format: "json", Source: `{"a":1}`})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected json renderer to claim the block")
	}
	if rendered.Badge != "{} JSON" {
		t.Errorf("unexpected badge %q", rendered.Badge)
	}
}

func TestRegistryEnabledReportsUnknownFormatFalse(t *testing.T) {
	reg := NewRegistry(DefaultRenderersConfig())
	if reg.Enabled("protobuf") {
		t.Error("expected unregistered format to report disabled")
	}
}
