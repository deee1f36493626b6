package renderer

import colorful "github.com/lucasb-eyer/go-colorful"

// CellRenderer holds the per-frame state the instance builders read
// from: the grid layout, framebuffer size, cursor, and window-level
// color/opacity settings. It carries no GPU resources itself.
type CellRenderer struct {
	Grid   Grid
	Config FrameConfig
	Cursor CursorState

	IsFocused                               bool
	BackgroundColor                         [3]float32
	WindowOpacity                           float32
	TransparencyAffectsOnlyDefaultBackground bool
	ScaleFactor                             float32
}

func colorToF32(c [3]uint8) [3]float32 {
	return [3]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255}
}

func colorToF32A(c [3]uint8, alpha float32) [4]float32 {
	f := colorToF32(c)
	return [4]float32{f[0], f[1], f[2], alpha}
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// sameColor reports whether two RGB triples are close enough to treat as
// the same color, using go-colorful's RGB distance rather than a
// component-wise epsilon so the threshold behaves consistently regardless
// of which channel differs.
func sameColor(a, b [3]float32) bool {
	ca := colorful.Color{R: float64(a[0]), G: float64(a[1]), B: float64(a[2])}
	cb := colorful.Color{R: float64(b[0]), G: float64(b[1]), B: float64(b[2])}
	return ca.DistanceRgb(cb) < ColorComponentEpsilon
}

// toNDC converts a pixel-space rectangle to the [-1, 1] normalized
// device coordinate quad the GPU instance buffer expects, with y
// flipped since framebuffer rows grow downward.
func toNDC(x0, y0, x1, y1 float32, cfg FrameConfig) (pos, size [2]float32) {
	width := float32(cfg.Width)
	height := float32(cfg.Height)
	pos = [2]float32{x0/width*2 - 1, 1 - (y0 / height * 2)}
	size = [2]float32{(x1 - x0) / width * 2, (y1 - y0) / height * 2}
	return
}

// BuildRowBackgroundInstances computes the background quads for one
// row of cells, run-length-merging consecutive cells that share a
// background color into a single quad (eliminating seams between
// adjacent same-colored cells) and returning exactly len(rowCells)
// entries, padding unused tail slots with a zero-sized transparent
// instance.
//
// A cursor at a cell, or a color change, always breaks a merge run: the
// cursor cell renders alone so its color blending never bleeds into
// neighboring cells.
func (r *CellRenderer) BuildRowBackgroundInstances(row int, rowCells []Cell) []BackgroundInstance {
	out := make([]BackgroundInstance, 0, len(rowCells))

	col := 0
	for col < len(rowCells) {
		cell := rowCells[col]
		bgF := colorToF32(cell.BgColor)
		isDefaultBg := sameColor(bgF, r.BackgroundColor)

		hasCursor := r.cursorAt(row, col)

		if isDefaultBg && !hasCursor {
			col++
			continue
		}

		if hasCursor && r.Cursor.Opacity > 0 {
			out = append(out, r.buildCursorCellInstance(row, col, cell))
			col++
			continue
		}

		startCol := col
		runColor := cell.BgColor
		col++
		for col < len(rowCells) {
			next := rowCells[col]
			if next.BgColor != runColor || r.cursorAt(row, col) {
				break
			}
			col++
		}
		runLength := col - startCol

		x0 := r.Grid.WindowPadding + r.Grid.ContentOffsetX + float32(startCol)*r.Grid.CellWidth
		x1 := r.Grid.WindowPadding + r.Grid.ContentOffsetX + float32(startCol+runLength)*r.Grid.CellWidth
		y0 := r.Grid.WindowPadding + r.Grid.ContentOffsetY + float32(row)*r.Grid.CellHeight
		y1 := y0 + r.Grid.CellHeight

		bgAlpha := r.WindowOpacity
		if r.TransparencyAffectsOnlyDefaultBackground && !isDefaultBg {
			bgAlpha = 1.0
		}
		color := colorToF32A(runColor, bgAlpha)

		pos, size := toNDC(x0, y0, x1, y1, r.Config)
		out = append(out, BackgroundInstance{Position: pos, Size: size, Color: color})
	}

	for len(out) < len(rowCells) {
		out = append(out, zeroInstance)
	}
	return out
}

func (r *CellRenderer) cursorAt(row, col int) bool {
	visible := r.Cursor.Opacity > 0 && !r.Cursor.HiddenForShader && r.Cursor.Row == row && r.Cursor.Col == col
	if !visible {
		return false
	}
	if r.IsFocused {
		return true
	}
	switch r.Cursor.UnfocusedStyle {
	case UnfocusedCursorHidden:
		return false
	default:
		return true
	}
}

// buildCursorCellInstance renders the one cell the cursor occupies,
// blending the cursor color into the background for a solid block
// cursor, or leaving the background untouched for a hollow outline
// (added separately by the overlay builder) or a non-block cursor
// style.
func (r *CellRenderer) buildCursorCellInstance(row, col int, cell Cell) BackgroundInstance {
	bgAlpha := r.WindowOpacity
	color := colorToF32A(cell.BgColor, bgAlpha)

	renderHollow := !r.IsFocused && r.Cursor.UnfocusedStyle == UnfocusedCursorHollow
	if r.Cursor.Style.isBlock() && !renderHollow {
		bg := colorful.Color{R: float64(color[0]), G: float64(color[1]), B: float64(color[2])}
		cursor := colorful.Color{R: float64(r.Cursor.Color[0]), G: float64(r.Cursor.Color[1]), B: float64(r.Cursor.Color[2])}
		blended := bg.BlendRgb(cursor, float64(r.Cursor.Opacity))
		color[0], color[1], color[2] = float32(blended.R), float32(blended.G), float32(blended.B)
		if r.Cursor.Opacity > color[3] {
			color[3] = r.Cursor.Opacity
		}
	}

	x0 := r.Grid.WindowPadding + r.Grid.ContentOffsetX + float32(col)*r.Grid.CellWidth
	x1 := x0 + r.Grid.CellWidth
	y0 := r.Grid.WindowPadding + r.Grid.ContentOffsetY + float32(row)*r.Grid.CellHeight
	y1 := y0 + r.Grid.CellHeight

	pos, size := toNDC(x0, y0, x1, y1, r.Config)
	return BackgroundInstance{Position: pos, Size: size, Color: color}
}

// BuildCursorOverlayInstances composes the CURSOR_OVERLAY_SLOTS-sized
// instance buffer: the cursor's own overlay shape, guide line, shadow,
// boost glow, and (when rendering an unfocused hollow block cursor) the
// four border strips that make up its outline.
func (r *CellRenderer) BuildCursorOverlayInstances() [CursorOverlaySlots]BackgroundInstance {
	var slots [CursorOverlaySlots]BackgroundInstance

	cursorVisible := r.Cursor.Opacity > 0 && !r.Cursor.HiddenForShader &&
		(r.IsFocused || r.Cursor.UnfocusedStyle != UnfocusedCursorHidden)

	cursorX0 := r.Grid.WindowPadding + r.Grid.ContentOffsetX + float32(r.Cursor.Col)*r.Grid.CellWidth
	cursorX1 := cursorX0 + r.Grid.CellWidth
	cursorY0 := r.Grid.WindowPadding + r.Grid.ContentOffsetY + float32(r.Cursor.Row)*r.Grid.CellHeight
	cursorY1 := cursorY0 + r.Grid.CellHeight

	if r.Cursor.Overlay != nil {
		slots[CursorOverlaySlotOverlay] = *r.Cursor.Overlay
	}

	if cursorVisible && r.Cursor.GuideEnabled {
		guideX0 := r.Grid.WindowPadding + r.Grid.ContentOffsetX
		guideX1 := float32(r.Config.Width) - r.Grid.WindowPadding - r.Grid.ContentInsetRight
		pos, size := toNDC(guideX0, cursorY0, guideX1, cursorY1, r.Config)
		slots[CursorOverlaySlotGuide] = BackgroundInstance{Position: pos, Size: size, Color: r.Cursor.GuideColor}
	}

	if cursorVisible && r.Cursor.ShadowEnabled {
		shadowX0 := cursorX0 + r.Cursor.ShadowOffset[0]
		shadowY0 := cursorY0 + r.Cursor.ShadowOffset[1]
		pos, size := toNDC(shadowX0, shadowY0, shadowX0+r.Grid.CellWidth, shadowY0+r.Grid.CellHeight, r.Config)
		slots[CursorOverlaySlotShadow] = BackgroundInstance{Position: pos, Size: size, Color: r.Cursor.ShadowColor}
	}

	if cursorVisible && r.Cursor.Boost > 0 {
		glowExpand := 4.0 * r.ScaleFactor * r.Cursor.Boost
		glowX0 := cursorX0 - glowExpand
		glowY0 := cursorY0 - glowExpand
		glowX1 := cursorX1 + glowExpand
		glowY1 := cursorY1 + glowExpand
		pos, size := toNDC(glowX0, glowY0, glowX1, glowY1, r.Config)
		glowAlpha := r.Cursor.Boost * CursorBoostMaxAlpha * r.Cursor.Opacity
		if glowAlpha > CursorBoostMaxAlpha {
			glowAlpha = CursorBoostMaxAlpha
		}
		slots[CursorOverlaySlotBoost] = BackgroundInstance{
			Position: pos,
			Size:     size,
			Color: [4]float32{
				r.Cursor.BoostColor[0], r.Cursor.BoostColor[1], r.Cursor.BoostColor[2],
				glowAlpha,
			},
		}
	}

	renderHollow := cursorVisible && !r.IsFocused && r.Cursor.UnfocusedStyle == UnfocusedCursorHollow
	if renderHollow && r.Cursor.Style.isBlock() {
		border := float32(HollowCursorBorderPx)
		color := [4]float32{r.Cursor.Color[0], r.Cursor.Color[1], r.Cursor.Color[2], r.Cursor.Opacity}

		pos, size := toNDC(cursorX0, cursorY0, cursorX1, cursorY0+border, r.Config)
		slots[CursorOverlaySlotBorderTop] = BackgroundInstance{Position: pos, Size: size, Color: color}

		pos, size = toNDC(cursorX0, cursorY1-border, cursorX1, cursorY1, r.Config)
		slots[CursorOverlaySlotBorderBottom] = BackgroundInstance{Position: pos, Size: size, Color: color}

		pos, size = toNDC(cursorX0, cursorY0+border, cursorX0+border, cursorY1-border, r.Config)
		slots[CursorOverlaySlotBorderLeft] = BackgroundInstance{Position: pos, Size: size, Color: color}

		pos, size = toNDC(cursorX1-border, cursorY0+border, cursorX1, cursorY1-border, r.Config)
		slots[CursorOverlaySlotBorderRight] = BackgroundInstance{Position: pos, Size: size, Color: color}
	}

	return slots
}

// BuildSeparatorInstances returns one instance per grid row, populated
// for rows with a visible shell-integration command-boundary mark.
func (r *CellRenderer) BuildSeparatorInstances(marks []SeparatorMark, thickness float32, color func(exitCode int, custom *[4]float32) [4]float32) []BackgroundInstance {
	out := make([]BackgroundInstance, r.Grid.Rows)
	widthF := float32(r.Config.Width)

	for _, m := range marks {
		if m.ScreenRow < 0 || m.ScreenRow >= r.Grid.Rows {
			continue
		}
		x0 := r.Grid.WindowPadding + r.Grid.ContentOffsetX
		x1 := widthF - r.Grid.WindowPadding - r.Grid.ContentInsetRight
		y0 := r.Grid.WindowPadding + r.Grid.ContentOffsetY + float32(m.ScreenRow)*r.Grid.CellHeight
		pos, size := toNDC(x0, y0, x1, y0+thickness, r.Config)
		out[m.ScreenRow] = BackgroundInstance{Position: pos, Size: size, Color: color(m.ExitCode, m.CustomColor)}
	}

	return out
}

// BuildGutterInstances returns one instance per grid row, populated for
// rows carrying a gutter indicator (e.g. a diff marker strip).
func (r *CellRenderer) BuildGutterInstances(marks []GutterMark) []BackgroundInstance {
	out := make([]BackgroundInstance, r.Grid.Rows)

	for _, m := range marks {
		if m.ScreenRow < 0 || m.ScreenRow >= r.Grid.Rows {
			continue
		}
		x0 := r.Grid.WindowPadding + r.Grid.ContentOffsetX
		x1 := x0 + GutterWidthCells*r.Grid.CellWidth
		y0 := r.Grid.WindowPadding + r.Grid.ContentOffsetY + float32(m.ScreenRow)*r.Grid.CellHeight
		pos, size := toNDC(x0, y0, x1, y0+r.Grid.CellHeight, r.Config)
		out[m.ScreenRow] = BackgroundInstance{Position: pos, Size: size, Color: m.Color}
	}

	return out
}
