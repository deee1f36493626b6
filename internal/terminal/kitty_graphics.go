package terminal

import (
	"bytes"
	"encoding/base64"
	"log"
	"strconv"
	"strings"

	"github.com/ellery/par-term/internal/graphics"
	"github.com/micro-editor/tcell/v2"
)

// assumedCellWidthPx/assumedCellHeightPx approximate a terminal cell's
// pixel footprint for graphics.PositionGraphics's width/height-in-cells
// math. A tcell-based backend has no real font metrics to query, so
// this is the same 1:2 aspect ratio most monospace terminal fonts use.
const (
	assumedCellWidthPx  = 8.0
	assumedCellHeightPx = 16.0
)

const (
	kittyAPCStart = "\x1b_G"
	kittyAPCEnd   = "\x1b\\"
)

// feedGraphicsScanner runs raw PTY bytes through the Kitty graphics
// protocol scanner before they reach feedMarksScanner/VT.Write. vt10x's
// st-derived parser has no notion of the protocol's APC payload, so
// left alone it would fall through to the default "unrecognized escape
// sequence" handling and the image data would print as garbage text.
// Recognized sequences are registered into p.graphicsCache and
// p.graphicsPlacements; everything else passes through unchanged.
func (p *Panel) feedGraphicsScanner(data []byte, write func([]byte)) {
	for len(data) > 0 {
		idx := bytes.Index(data, []byte(kittyAPCStart))
		if idx < 0 {
			write(data)
			return
		}
		write(data[:idx])
		rest := data[idx+len(kittyAPCStart):]

		end := bytes.Index(rest, []byte(kittyAPCEnd))
		if end < 0 {
			// The terminator hasn't arrived in this read yet. PTY reads
			// are 4KB and a base64 image payload routinely spans
			// several of them; rather than buffer across reads (a
			// fuller client would reassemble here), drop this one
			// placement and resume scanning past the escape.
			return
		}

		p.handleKittyGraphicsPayload(rest[:end])
		data = rest[end+len(kittyAPCEnd):]
	}
}

// handleKittyGraphicsPayload parses one Kitty graphics "transmit and
// display" command: comma-separated key=value control data, a
// semicolon, then the base64-encoded pixel payload. Only the subset
// needed to place a still RGB/RGBA image is handled; animation frames,
// chunked transmission (m=1), and file-backed payloads (t=f/t/s) are
// recognized but not assembled.
func (p *Panel) handleKittyGraphicsPayload(payload []byte) {
	semi := bytes.IndexByte(payload, ';')
	var keys string
	var encoded []byte
	if semi < 0 {
		keys = string(payload)
	} else {
		keys = string(payload[:semi])
		encoded = payload[semi+1:]
	}

	fields := map[string]string{}
	for _, kv := range strings.Split(keys, ",") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			fields[parts[0]] = parts[1]
		}
	}

	if action := fields["a"]; action != "" && action != "t" && action != "T" {
		return
	}
	if fields["t"] != "" && fields["t"] != "d" {
		// Payload transmitted by reference (file/shared memory) rather
		// than inline base64; not supported.
		return
	}
	if fields["m"] == "1" {
		log.Printf("PAR-TERM: kitty graphics: chunked transmission not supported, dropping")
		return
	}

	width, _ := strconv.Atoi(fields["s"])
	height, _ := strconv.Atoi(fields["v"])
	if width <= 0 || height <= 0 || len(encoded) == 0 {
		return
	}

	raw, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		log.Printf("PAR-TERM: kitty graphics: bad base64 payload: %v", err)
		return
	}

	pixels := raw
	if fields["f"] == "24" {
		pixels = rgb24ToRGBA(raw)
	}
	if len(pixels) != width*height*4 {
		log.Printf("PAR-TERM: kitty graphics: payload size %d != %dx%dx4, dropping", len(pixels), width, height)
		return
	}

	id := graphics.GraphicID(parseUintDefault(fields["i"], 1))

	if p.graphicsCache == nil {
		p.graphicsCache = graphics.NewTextureCache(0)
	}
	p.graphicsCache.GetOrCreate(id, pixels, width, height)
	log.Printf("PAR-TERM: kitty graphics: received id=%d %dx%d, cache now %s", id, width, height, p.graphicsCache.Stats())

	cursor := p.VT.Cursor()
	p.graphicsPlacements = append(p.graphicsPlacements, graphics.TerminalGraphic{
		ID:             id,
		Pixels:         pixels,
		Width:          width,
		Height:         height,
		Col:            cursor.X,
		Row:            cursor.Y,
		CellDimensions: [2]int{1, 2},
	})
}

// rgb24ToRGBA expands a tightly packed RGB (f=24) payload to RGBA8 with
// full opacity, the shape graphics.TextureCache stores.
func rgb24ToRGBA(rgb []byte) []byte {
	out := make([]byte, (len(rgb)/3)*4)
	for i, j := 0, 0; i+2 < len(rgb); i, j = i+3, j+4 {
		out[j], out[j+1], out[j+2], out[j+3] = rgb[i], rgb[i+1], rgb[i+2], 255
	}
	return out
}

func parseUintDefault(s string, def uint64) uint64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return def
	}
	return v
}

// advanceGraphicsScrollOffset records that n lines scrolled off the top
// of the live screen since each tracked graphic was placed, and drops
// any graphic that has scrolled entirely past the retained scrollback
// so graphicsPlacements doesn't grow without bound over a long session.
func (p *Panel) advanceGraphicsScrollOffset(n int) {
	if len(p.graphicsPlacements) == 0 || n <= 0 {
		return
	}
	retained := p.Scrollback.Count() + 2000
	kept := p.graphicsPlacements[:0]
	for _, g := range p.graphicsPlacements {
		g.ScrollOffsetRows += n
		if g.ScrollOffsetRows < retained {
			kept = append(kept, g)
		}
	}
	p.graphicsPlacements = kept
}

// drawGraphicsOverlay paints a placeholder tile over the cells each
// positioned graphic occupies. tcell has no pixel surface to composite
// the decoded image onto, so this renders the graphic's clamped
// footprint as a solid fill in a representative color sampled from its
// decoded texture, which is enough to make Position/ComputeTexCrop's
// math and the texture cache's eviction behavior visible on screen.
func (p *Panel) drawGraphicsOverlay(screen tcell.Screen, contentX, contentY, contentW, contentH int) {
	if p.graphicsCache == nil || len(p.graphicsPlacements) == 0 {
		return
	}

	positioned := graphics.PositionGraphics(p.graphicsCache, p.graphicsPlacements, 0, p.scrollbackPushed, contentH, assumedCellWidthPx, assumedCellHeightPx)

	for _, pg := range positioned {
		tex, ok := p.graphicsCache.Get(pg.ID)
		if !ok {
			continue
		}
		crop := graphics.ComputeTexCrop(pg.EffectiveClipRows, assumedCellHeightPx, tex.Height)
		visibleRows := pg.HeightCells - pg.EffectiveClipRows
		if crop.VisibleHeightPx <= 0 || visibleRows <= 0 {
			continue
		}

		style := tcell.StyleDefault.Background(representativeColor(tex))
		for row := 0; row < visibleRows; row++ {
			y := pg.ScreenRow + pg.EffectiveClipRows + row
			if y < 0 || y >= contentH {
				continue
			}
			for col := 0; col < pg.WidthCells; col++ {
				x := pg.Col + col
				if x < 0 || x >= contentW {
					continue
				}
				screen.SetContent(contentX+x, contentY+y, ' ', nil, style)
			}
		}
	}
}

// representativeColor samples a single pixel near the texture's center
// as a stand-in for its dominant color, cheap enough to run every frame
// even for a texture near maxTextureDimension on a side.
func representativeColor(tex *graphics.CachedTexture) tcell.Color {
	if tex == nil || len(tex.Pixels) < 4 {
		return tcell.ColorGray
	}
	mid := (len(tex.Pixels) / 8) * 4
	if mid+3 >= len(tex.Pixels) {
		mid = 0
	}
	r, g, b := tex.Pixels[mid], tex.Pixels[mid+1], tex.Pixels[mid+2]
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
