package graphics

// TerminalGraphic is the renderer-facing view of an inline image placed
// by the terminal (Sixel, iTerm2, or Kitty protocol output).
type TerminalGraphic struct {
	ID     GraphicID
	Pixels []byte // RGBA8
	Width  int
	Height int

	// Col, Row is the graphic's position relative to the visible area,
	// used when ScrollbackRow is nil (a "current screen" graphic).
	Col, Row int

	// CellDimensions is the (width, height) in pixels of one terminal
	// cell as the core emulator understood it when the graphic was
	// placed; Height defaults to 2 when unset. Needed to convert
	// ScrollOffsetRows into the renderer's own cell-height units.
	CellDimensions [2]int

	// ScrollOffsetRows is how many terminal rows have scrolled off the
	// top of this graphic since it was placed (0 for a graphic that
	// hasn't scrolled at all).
	ScrollOffsetRows int

	// ScrollbackRow is set for a scrollback-resident graphic: its
	// absolute index into the scrollback buffer. Nil for a
	// current-screen graphic.
	ScrollbackRow *int
}

// PositionedGraphic is a graphic placed in screen space, ready to hand
// to a Backend's draw call.
type PositionedGraphic struct {
	ID               GraphicID
	ScreenRow        int // can be negative: scrolled off the top
	Col              int
	WidthCells       int
	HeightCells      int
	Alpha            float32
	EffectiveClipRows int // rows to clip from the top for partial visibility
}

// ViewWindow is the range of absolute scrollback+current lines
// currently visible.
type ViewWindow struct {
	Start, End int
}

// ComputeViewWindow derives the visible line range from the scrollback
// length, visible row count, and how far the user has scrolled up.
func ComputeViewWindow(scrollbackLen, visibleRows, viewScrollOffset int) ViewWindow {
	totalLines := scrollbackLen + visibleRows
	end := saturatingSub(totalLines, viewScrollOffset)
	start := saturatingSub(end, visibleRows)
	return ViewWindow{Start: start, End: end}
}

func saturatingSub(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}

// scrollOffsetInDisplayRows converts a graphic's ScrollOffsetRows
// (expressed in the core emulator's cell-height units at placement
// time) into the renderer's own display cell-height units. Skipping
// this conversion silently mispositions any graphic whose cell
// dimension hint predates the renderer's current cell height.
func scrollOffsetInDisplayRows(scrollOffsetRows int, coreCellHeight, displayCellHeight float64) int {
	if coreCellHeight <= 0 {
		coreCellHeight = 2.0
	}
	if displayCellHeight <= 0 {
		displayCellHeight = 1.0
	}
	return int(roundHalfAwayFromZero(float64(scrollOffsetRows) * coreCellHeight / displayCellHeight))
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}

// ScreenRow computes where a graphic lands relative to the top of the
// visible view: for a scrollback-resident graphic, screen_row =
// scrollback_row − view_start; for a current-screen graphic, the
// absolute row is reconstructed from scrollback_len, the graphic's own
// row offset, and how far it has scrolled, then placed the same way.
func ScreenRow(g TerminalGraphic, view ViewWindow, scrollbackLen int, displayCellHeight float64) int {
	if g.ScrollbackRow != nil {
		return *g.ScrollbackRow - view.Start
	}

	coreCellHeight := float64(g.CellDimensions[1])
	scrollInDisplayRows := scrollOffsetInDisplayRows(g.ScrollOffsetRows, coreCellHeight, displayCellHeight)
	absoluteRow := saturatingSub(scrollbackLen, scrollInDisplayRows) + g.Row
	return absoluteRow - view.Start
}

// EffectiveClipRows reports how many rows of a graphic are scrolled off
// above the top of the viewport (0 when fully visible).
func EffectiveClipRows(screenRow int) int {
	if screenRow < 0 {
		return -screenRow
	}
	return 0
}

func ceilDiv(pixels int, cellPixels float64) int {
	if cellPixels <= 0 {
		return 1
	}
	cells := int((float64(pixels)/cellPixels)+0.999999)
	if cells < 1 {
		return 1
	}
	return cells
}

// PositionGraphics lays out a batch of graphics against the current
// view window, the shape consumed by a per-frame or per-pane render
// pass. The texture cache is shared with callers so Position never
// duplicates a texture upload the cache already holds.
func PositionGraphics(cache *TextureCache, graphics []TerminalGraphic, viewScrollOffset, scrollbackLen, visibleRows int, cellWidth, cellHeight float64) []PositionedGraphic {
	view := ComputeViewWindow(scrollbackLen, visibleRows, viewScrollOffset)

	out := make([]PositionedGraphic, 0, len(graphics))
	for _, g := range graphics {
		cache.GetOrCreate(g.ID, g.Pixels, g.Width, g.Height)

		screenRow := ScreenRow(g, view, scrollbackLen, cellHeight)
		widthCells := ceilDiv(g.Width, cellWidth)
		heightCells := ceilDiv(g.Height, cellHeight)

		out = append(out, PositionedGraphic{
			ID:                g.ID,
			ScreenRow:         screenRow,
			Col:               g.Col,
			WidthCells:        widthCells,
			HeightCells:       heightCells,
			Alpha:             1.0,
			EffectiveClipRows: EffectiveClipRows(screenRow),
		})
	}
	return out
}

// maxTexVStart caps how far a scrolled graphic's texture-V start can
// move, so a fully scrolled-past graphic never wraps back to sampling
// its own top edge.
const maxTexVStart = 0.99

// TexCrop is the normalized texture-space V range a partially
// scrolled-off graphic should sample, plus the screen-space pixel
// height that remains visible.
type TexCrop struct {
	VStart          float32
	VHeight         float32
	VisibleHeightPx float32
}

// ComputeTexCrop converts how many terminal rows have scrolled off a
// graphic's top into the texture-V crop window to sample from, and the
// resulting visible pixel height (preserving the texture's own aspect
// ratio rather than deriving it from cell counts).
func ComputeTexCrop(scrollOffsetRows int, cellHeight float64, texHeight int) TexCrop {
	if scrollOffsetRows <= 0 || texHeight <= 0 {
		return TexCrop{VStart: 0, VHeight: 1, VisibleHeightPx: float32(texHeight)}
	}

	pixelsScrolled := float64(scrollOffsetRows) * cellHeight
	vStart := pixelsScrolled / float64(texHeight)
	if vStart > maxTexVStart {
		vStart = maxTexVStart
	}
	vHeight := 1.0 - vStart

	visible := float64(texHeight) * vHeight
	if visible < 1 {
		visible = 1
	}

	return TexCrop{VStart: float32(vStart), VHeight: float32(vHeight), VisibleHeightPx: float32(visible)}
}
