package terminal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ellery/par-term/internal/shader"
)

// ShaderState is a background shader loaded against this pane: its
// parsed metadata (author-set defaults), the validated/transpiled WGSL
// body (produced even though no GPU backend executes it, matching how
// shader.Transpile is meant to be called), and the per-frame uniform
// values the renderer would upload were a real pipeline attached.
type ShaderState struct {
	Name     string
	Path     string
	Metadata *shader.Metadata
	WGSL     string

	uniforms shader.Uniforms
	start    time.Time
	frame    float32
}

// LoadShader reads name from shadersDir, parses its metadata block, and
// validates/transpiles it via the structural validator (the stand-in
// Transpiler this module ships, see shader.Transpile's doc comment for
// why there's no real GLSL backend). The cache avoids re-reading the
// metadata block on every call; the transpile step always runs fresh
// since it's cheap and callers may be iterating on a shader's body.
func (p *Panel) LoadShader(shadersDir, name string) error {
	if p.shaderCache == nil {
		p.shaderCache = shader.NewMetadataCache(shadersDir)
	}

	path := filepath.Join(shadersDir, name)
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("shader: read %s: %w", name, err)
	}

	wgsl, errs, err := shader.Transpile(shader.StructuralValidator{}, string(source), path)
	if err != nil {
		return fmt.Errorf("shader: %s failed validation: %w (%d diagnostics)", name, err, len(errs))
	}

	meta, _ := p.shaderCache.Get(name)

	p.mu.Lock()
	p.ActiveShader = &ShaderState{
		Name:     name,
		Path:     path,
		Metadata: meta,
		WGSL:     wgsl,
		start:    time.Now(),
	}
	p.mu.Unlock()
	return nil
}

// ClearShader detaches the active shader, if any.
func (p *Panel) ClearShader() {
	p.mu.Lock()
	p.ActiveShader = nil
	p.mu.Unlock()
}

// tickUniforms advances the active shader's per-frame uniform values
// against the pane's current size and cursor position. Called once per
// render pass; with no GPU pipeline to upload to, this keeps the values
// a real backend would consume available via Panel.ShaderUniforms for
// diagnostics and tests.
func (p *Panel) tickUniforms(contentW, contentH, cursorX, cursorY int) {
	s := p.ActiveShader
	if s == nil {
		return
	}
	elapsed := time.Since(s.start).Seconds()
	s.frame++
	s.uniforms.Resolution = [2]float32{float32(contentW), float32(contentH)}
	s.uniforms.Time = float32(elapsed)
	s.uniforms.Frame = s.frame
	s.uniforms.FrameRate = 60
	s.uniforms.Opacity = 1.0
	s.uniforms.TextOpacity = 1.0
	s.uniforms.Brightness = 1.0
	s.uniforms.CurrentCursor = [4]float32{float32(cursorX), float32(cursorY), 0, 0}

	if d := s.Metadata; d != nil {
		if d.Defaults.Brightness != nil {
			s.uniforms.Brightness = float32(*d.Defaults.Brightness)
		}
		if d.Defaults.FullContent != nil && *d.Defaults.FullContent {
			s.uniforms.FullContent = 1.0
		}
	}
}

// ShaderUniforms returns the active shader's current uniform values, or
// the zero value if no shader is attached.
func (p *Panel) ShaderUniforms() (shader.Uniforms, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ActiveShader == nil {
		return shader.Uniforms{}, false
	}
	return p.ActiveShader.uniforms, true
}

// shaderBrightness returns the active shader's configured brightness,
// or 1 (no dimming) when no shader is attached. renderLiveView passes
// it as the CellRenderer's WindowOpacity, so it scales the background
// instances' alpha; text color is not scaled. It stands in for the GLSL
// shell epilogue's `dimmed = shaderColor.rgb * iBrightness`, since no GPU
// path exists to run that shader directly against this backend.
func (p *Panel) shaderBrightness() float32 {
	if p.ActiveShader == nil {
		return 1.0
	}
	return p.ActiveShader.uniforms.Brightness
}
