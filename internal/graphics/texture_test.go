package graphics

import "testing"

func TestTextureCacheGetOrCreateInsertsNew(t *testing.T) {
	c := NewTextureCache(4)
	pixels := []byte{1, 2, 3, 4}
	tex := c.GetOrCreate(1, pixels, 1, 1)
	if tex.Width != 1 || tex.Height != 1 {
		t.Fatalf("unexpected dims %+v", tex)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}

func TestTextureCacheGetOrCreateUpdatesInPlace(t *testing.T) {
	c := NewTextureCache(4)
	c.GetOrCreate(1, []byte{1, 1, 1, 1}, 1, 1)
	updated := c.GetOrCreate(1, []byte{9, 9, 9, 9}, 1, 1)
	if updated.Pixels[0] != 9 {
		t.Fatalf("expected in-place update, got %v", updated.Pixels)
	}
	if c.Len() != 1 {
		t.Fatalf("expected still 1 entry after update, got %d", c.Len())
	}
}

func TestTextureCacheEvictsLRU(t *testing.T) {
	c := NewTextureCache(2)
	c.GetOrCreate(1, []byte{1}, 1, 1)
	c.GetOrCreate(2, []byte{2}, 1, 1)
	c.GetOrCreate(3, []byte{3}, 1, 1)

	if _, ok := c.Get(1); ok {
		t.Fatalf("expected id 1 to be evicted")
	}
	if _, ok := c.Get(3); !ok {
		t.Fatalf("expected id 3 to still be cached")
	}
}

func TestTextureCacheRemoveAndClear(t *testing.T) {
	c := NewTextureCache(4)
	c.GetOrCreate(1, []byte{1}, 1, 1)
	c.Remove(1)
	if c.Len() != 0 {
		t.Fatalf("expected 0 after remove, got %d", c.Len())
	}

	c.GetOrCreate(2, []byte{2}, 1, 1)
	c.GetOrCreate(3, []byte{3}, 1, 1)
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected 0 after clear, got %d", c.Len())
	}
}

func TestStatsString(t *testing.T) {
	c := NewTextureCache(4)
	c.GetOrCreate(1, make([]byte, 1024), 16, 16)
	stats := c.Stats()
	if stats.TextureCount != 1 {
		t.Fatalf("expected 1 texture, got %d", stats.TextureCount)
	}
	if stats.String() == "" {
		t.Fatalf("expected non-empty stats string")
	}
}
