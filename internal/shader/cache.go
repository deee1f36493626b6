package shader

import (
	"os"
	"path/filepath"
	"sync"
)

// MetadataCache avoids re-parsing shader files on every access while
// still allowing invalidation for hot-reload scenarios, keyed by shader
// filename (not full path).
type MetadataCache struct {
	mu         sync.Mutex
	entries    map[string]*Metadata
	shadersDir string
}

// NewMetadataCache creates an empty cache resolving bare shader names
// against shadersDir.
func NewMetadataCache(shadersDir string) *MetadataCache {
	return &MetadataCache{entries: make(map[string]*Metadata), shadersDir: shadersDir}
}

// Get returns the metadata for shaderName, loading and caching it on
// first access. A shader with no metadata block caches a nil entry so
// repeated misses don't re-read the file.
func (c *MetadataCache) Get(shaderName string) (*Metadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if meta, ok := c.entries[shaderName]; ok {
		return meta, meta != nil
	}

	meta := c.loadMetadata(shaderName)
	c.entries[shaderName] = meta
	return meta, meta != nil
}

// GetFresh reads and parses the shader file directly, bypassing the
// cache, for hot-reload scenarios that need current data.
func (c *MetadataCache) GetFresh(shaderName string) (*Metadata, bool) {
	return c.loadMetadata(shaderName), c.loadMetadata(shaderName) != nil
}

func (c *MetadataCache) loadMetadata(shaderName string) *Metadata {
	path := c.resolveShaderPath(shaderName)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	meta, ok := ParseMetadata(string(data))
	if !ok {
		return nil
	}
	return meta
}

func (c *MetadataCache) resolveShaderPath(shaderName string) string {
	if filepath.IsAbs(shaderName) {
		if _, err := os.Stat(shaderName); err == nil {
			return shaderName
		}
		return ""
	}

	if c.shadersDir != "" {
		full := filepath.Join(c.shadersDir, shaderName)
		if _, err := os.Stat(full); err == nil {
			return full
		}
	}
	return ""
}

// Invalidate removes a single cached entry, for when a shader file has
// been modified on disk.
func (c *MetadataCache) Invalidate(shaderName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, shaderName)
}

// InvalidateAll clears the whole cache, for when the shaders directory
// itself might have changed.
func (c *MetadataCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Metadata)
}

// IsCached reports whether shaderName currently has a cached entry
// (including a cached miss).
func (c *MetadataCache) IsCached(shaderName string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[shaderName]
	return ok
}

// Size reports the number of cached entries.
func (c *MetadataCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
