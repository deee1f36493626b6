package graphics

import "github.com/dustin/go-humanize"

// Stats summarizes cache occupancy for diagnostics surfaces (e.g. an MCP
// tool reporting terminal memory pressure).
type Stats struct {
	TextureCount int
	TotalBytes   uint64
}

// String renders a human-readable one-liner, e.g. "12 textures, 4.3 MB".
func (s Stats) String() string {
	return humanize.Comma(int64(s.TextureCount)) + " textures, " + humanize.Bytes(s.TotalBytes)
}

// Stats reports the cache's current occupancy.
func (c *TextureCache) Stats() Stats {
	return Stats{TextureCount: c.Len(), TotalBytes: c.TotalBytes()}
}
