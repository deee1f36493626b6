package prettifier

import "sort"

// Block is a span of terminal output the detector has identified as a
// candidate for prettification, along with the format it detected.
type Block struct {
	Format     string
	Source     string
	Confidence float32
}

// Rendered is the output of running a Renderer over a Block: styled lines
// ready to composite over the terminal grid, plus an optional badge label
// shown on the collapsed/source toggle ("MD", "{} JSON", ...).
type Rendered struct {
	Lines []string
	Badge string
}

// Renderer turns a detected Block into display lines. Implementations must
// not mutate Block.Source.
type Renderer interface {
	// ID matches a RenderersConfig field name (lowercased): "markdown",
	// "json", "diff", "diagrams", and so on.
	ID() string
	Render(block Block) (Rendered, error)
}

// registryEntry pairs a Renderer with the resolved toggle that governs it.
type registryEntry struct {
	renderer Renderer
	toggle   RendererToggle
}

// Registry orders the enabled renderers by descending priority, ties
// broken by registration order, and dispatches a Block to the first
// renderer whose ID matches the detected format.
type Registry struct {
	entries []registryEntry
}

// NewRegistry builds a Registry from a resolved config's renderer toggles,
// wiring each built-in renderer implementation to its toggle.
func NewRegistry(cfg RenderersConfig) *Registry {
	r := &Registry{}
	r.register(MarkdownRenderer{}, cfg.Markdown)
	r.register(JSONRenderer{}, cfg.JSON)
	r.register(NewDiffRenderer(cfg.Diff), cfg.Diff.RendererToggle)
	r.finalize()
	return r
}

func (r *Registry) register(renderer Renderer, toggle RendererToggle) {
	r.entries = append(r.entries, registryEntry{renderer: renderer, toggle: toggle})
}

// finalize sorts entries by descending priority, stable so ties keep
// registration order.
func (r *Registry) finalize() {
	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].toggle.Priority > r.entries[j].toggle.Priority
	})
}

// RegisterCustom adds a user-defined external-command renderer to the
// dispatch list, subject to the same enabled/priority semantics as the
// built-ins, and re-sorts the list by priority.
func (r *Registry) RegisterCustom(renderer Renderer, toggle RendererToggle) {
	r.register(renderer, toggle)
	r.finalize()
}

// Render dispatches block to the first enabled renderer whose ID matches
// block.Format. Returns ok=false if no enabled renderer claims the format.
func (r *Registry) Render(block Block) (Rendered, bool, error) {
	for _, e := range r.entries {
		if !e.toggle.Enabled || e.renderer.ID() != block.Format {
			continue
		}
		rendered, err := e.renderer.Render(block)
		return rendered, true, err
	}
	return Rendered{}, false, nil
}

// Enabled reports whether a renderer exists and is enabled for format.
func (r *Registry) Enabled(format string) bool {
	for _, e := range r.entries {
		if e.renderer.ID() == format {
			return e.toggle.Enabled
		}
	}
	return false
}
