// Package graphics caches decoded inline-image textures (Sixel, iTerm2,
// Kitty protocol) and computes where each one lands on screen as the
// terminal scrolls.
package graphics

import (
	"image"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// GraphicID stably identifies a graphic across position changes; the
// same id re-uploaded replaces the cached texture in place, which is
// what makes animated protocols (e.g. Kitty's frame updates) work.
type GraphicID uint64

// CachedTexture is a decoded RGBA image plus the pixel dimensions it was
// decoded at.
type CachedTexture struct {
	Pixels []byte // RGBA8, len == Width*Height*4
	Width  int
	Height int
}

func (t *CachedTexture) sizeBytes() int {
	if t == nil {
		return 0
	}
	return len(t.Pixels)
}

// defaultTextureCacheSize bounds how many distinct graphics stay
// resident; least-recently-used entries are evicted once a session has
// shown more graphics than this (e.g. scrolling through many inline
// image outputs in one pane).
const defaultTextureCacheSize = 256

// TextureCache is a thread-safe, size-bounded cache of decoded graphic
// textures keyed by GraphicID.
type TextureCache struct {
	mu    sync.Mutex
	cache *lru.Cache[GraphicID, *CachedTexture]
}

// NewTextureCache builds a cache holding at most capacity textures. A
// non-positive capacity falls back to defaultTextureCacheSize.
func NewTextureCache(capacity int) *TextureCache {
	if capacity <= 0 {
		capacity = defaultTextureCacheSize
	}
	c, _ := lru.New[GraphicID, *CachedTexture](capacity)
	return &TextureCache{cache: c}
}

// GetOrCreate returns the cached texture for id, decoding and inserting
// (or replacing, for an id already present — the in-place update
// animated protocols need) it from pixels/width/height otherwise.
func (c *TextureCache) GetOrCreate(id GraphicID, pixels []byte, width, height int) *CachedTexture {
	pixels, width, height = clampToMaxDimension(pixels, width, height)

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.cache.Get(id); ok && existing.Width == width && existing.Height == height {
		copy(existing.Pixels, pixels)
		return existing
	}

	tex := &CachedTexture{
		Pixels: append([]byte(nil), pixels...),
		Width:  width,
		Height: height,
	}
	c.cache.Add(id, tex)
	return tex
}

// Get looks up a texture without creating it.
func (c *TextureCache) Get(id GraphicID) (*CachedTexture, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Get(id)
}

// Remove drops a single texture, e.g. when its owning graphic is
// scrolled out of the scrollback buffer entirely.
func (c *TextureCache) Remove(id GraphicID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Remove(id)
}

// Clear drops every cached texture.
func (c *TextureCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
}

// Len reports how many textures are currently cached.
func (c *TextureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// Preview renders a small grayscale thumbnail of the cached texture for
// id, or nil if the texture isn't cached.
func (c *TextureCache) Preview(id GraphicID, maxSide int) image.Image {
	c.mu.Lock()
	tex, ok := c.cache.Get(id)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return grayPreview(tex, maxSide)
}

// TotalBytes sums the pixel-buffer size of every cached texture, for
// reporting cache memory pressure.
func (c *TextureCache) TotalBytes() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total uint64
	for _, id := range c.cache.Keys() {
		if tex, ok := c.cache.Peek(id); ok {
			total += uint64(tex.sizeBytes())
		}
	}
	return total
}
