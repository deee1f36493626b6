package graphics

import "testing"

func TestClampToMaxDimensionPassesThroughSmallImage(t *testing.T) {
	pixels := make([]byte, 10*10*4)
	out, w, h := clampToMaxDimension(pixels, 10, 10)
	if w != 10 || h != 10 {
		t.Fatalf("expected unchanged dims, got %dx%d", w, h)
	}
	if len(out) != len(pixels) {
		t.Fatalf("expected unchanged buffer length")
	}
}

func TestClampToMaxDimensionDownscalesOversizedImage(t *testing.T) {
	width, height := 8000, 2000
	pixels := make([]byte, width*height*4)
	out, w, h := clampToMaxDimension(pixels, width, height)
	if w > maxTextureDimension || h > maxTextureDimension {
		t.Fatalf("expected both dims <= %d, got %dx%d", maxTextureDimension, w, h)
	}
	if w != maxTextureDimension {
		t.Fatalf("expected the longer edge clamped to %d, got %d", maxTextureDimension, w)
	}
	if len(out) != w*h*4 {
		t.Fatalf("expected output buffer sized for %dx%d, got %d bytes", w, h, len(out))
	}
}

func TestTextureCacheAppliesDimensionClampOnInsert(t *testing.T) {
	c := NewTextureCache(4)
	width, height := 9000, 1000
	pixels := make([]byte, width*height*4)
	tex := c.GetOrCreate(1, pixels, width, height)
	if tex.Width > maxTextureDimension {
		t.Fatalf("expected cached texture width clamped, got %d", tex.Width)
	}
}

func TestPreviewReturnsNilForUnknownID(t *testing.T) {
	c := NewTextureCache(4)
	if c.Preview(99, 32) != nil {
		t.Fatalf("expected nil preview for unknown id")
	}
}

func TestPreviewReturnsThumbnailForKnownID(t *testing.T) {
	c := NewTextureCache(4)
	c.GetOrCreate(1, make([]byte, 64*64*4), 64, 64)
	img := c.Preview(1, 16)
	if img == nil {
		t.Fatalf("expected non-nil preview")
	}
	bounds := img.Bounds()
	if bounds.Dx() > 16 || bounds.Dy() > 16 {
		t.Fatalf("expected thumbnail within 16px, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}
