package shader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMetadataCacheBasic(t *testing.T) {
	c := NewMetadataCache(t.TempDir())

	if c.IsCached("test.glsl") {
		t.Fatal("expected nothing cached initially")
	}
	if c.Size() != 0 {
		t.Fatalf("expected size 0, got %d", c.Size())
	}

	_, _ = c.Get("nonexistent.glsl")
	if !c.IsCached("nonexistent.glsl") {
		t.Fatal("expected a miss to still be cached")
	}
	if c.Size() != 1 {
		t.Fatalf("expected size 1, got %d", c.Size())
	}

	c.Invalidate("nonexistent.glsl")
	if c.IsCached("nonexistent.glsl") {
		t.Fatal("expected invalidate to remove the cached miss")
	}
	if c.Size() != 0 {
		t.Fatalf("expected size 0 after invalidate, got %d", c.Size())
	}
}

func TestMetadataCacheLoadsFromShadersDir(t *testing.T) {
	dir := t.TempDir()
	shaderPath := filepath.Join(dir, "crt.glsl")
	source := `/*! par-term shader metadata
name: "CRT Effect"
*/
void mainImage(out vec4 fragColor, in vec2 fragCoord) { fragColor = vec4(1.0); }
`
	if err := os.WriteFile(shaderPath, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewMetadataCache(dir)
	meta, ok := c.Get("crt.glsl")
	if !ok {
		t.Fatal("expected metadata to be found")
	}
	if meta.Name != "CRT Effect" {
		t.Fatalf("unexpected name %q", meta.Name)
	}
}

func TestMetadataCacheInvalidateAll(t *testing.T) {
	c := NewMetadataCache(t.TempDir())
	_, _ = c.Get("a.glsl")
	_, _ = c.Get("b.glsl")
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
	c.InvalidateAll()
	if c.Size() != 0 {
		t.Fatalf("expected size 0 after InvalidateAll, got %d", c.Size())
	}
}

func TestMetadataCacheAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	shaderPath := filepath.Join(dir, "abs.glsl")
	source := `/*! par-term shader metadata
name: "Absolute"
*/
void mainImage(out vec4 fragColor, in vec2 fragCoord) { fragColor = vec4(1.0); }
`
	if err := os.WriteFile(shaderPath, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewMetadataCache("")
	meta, ok := c.Get(shaderPath)
	if !ok {
		t.Fatal("expected metadata to be found via absolute path")
	}
	if meta.Name != "Absolute" {
		t.Fatalf("unexpected name %q", meta.Name)
	}
}
