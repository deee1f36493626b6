package graphics

import "testing"

func TestComputeViewWindowNoScroll(t *testing.T) {
	view := ComputeViewWindow(100, 24, 0)
	if view.End != 124 {
		t.Fatalf("expected end 124, got %d", view.End)
	}
	if view.Start != 100 {
		t.Fatalf("expected start 100, got %d", view.Start)
	}
}

func TestComputeViewWindowScrolledUp(t *testing.T) {
	view := ComputeViewWindow(100, 24, 50)
	if view.End != 74 {
		t.Fatalf("expected end 74, got %d", view.End)
	}
	if view.Start != 50 {
		t.Fatalf("expected start 50, got %d", view.Start)
	}
}

// Graphic row formula: for a current-screen graphic with
// scroll_offset_rows=0, screen_row = row when view_scroll_offset = 0.
func TestScreenRowCurrentGraphicNoScrollMatchesRow(t *testing.T) {
	g := TerminalGraphic{Row: 5, CellDimensions: [2]int{10, 20}}
	view := ComputeViewWindow(0, 24, 0)
	row := ScreenRow(g, view, 0, 20)
	if row != 5 {
		t.Fatalf("expected screen_row == row (5), got %d", row)
	}
}

func TestScreenRowScrollbackGraphic(t *testing.T) {
	sbRow := 42
	g := TerminalGraphic{ScrollbackRow: &sbRow}
	view := ComputeViewWindow(100, 24, 0) // view_start = 100
	row := ScreenRow(g, view, 100, 20)
	if row != 42-100 {
		t.Fatalf("expected %d, got %d", 42-100, row)
	}
}

func TestScreenRowConvertsCoreCellHeightToDisplayCellHeight(t *testing.T) {
	// core cell height 2px/row, display cell height 20px/row: 10 core
	// rows of scroll == 1 display row of scroll.
	g := TerminalGraphic{Row: 0, CellDimensions: [2]int{10, 2}, ScrollOffsetRows: 10}
	view := ComputeViewWindow(100, 24, 0)
	row := ScreenRow(g, view, 100, 20)
	// absoluteRow = scrollbackLen(100) - scrollInDisplayRows(1) + row(0) = 99
	// screen_row = absoluteRow - view_start(100) = -1
	if row != -1 {
		t.Fatalf("expected -1, got %d", row)
	}
}

func TestEffectiveClipRows(t *testing.T) {
	if EffectiveClipRows(-3) != 3 {
		t.Fatalf("expected 3 rows clipped for screen_row=-3")
	}
	if EffectiveClipRows(0) != 0 {
		t.Fatalf("expected 0 rows clipped for screen_row=0")
	}
	if EffectiveClipRows(5) != 0 {
		t.Fatalf("expected 0 rows clipped for screen_row=5")
	}
}

func TestComputeTexCropNoScrollIsFullTexture(t *testing.T) {
	crop := ComputeTexCrop(0, 20, 400)
	if crop.VStart != 0 || crop.VHeight != 1 {
		t.Fatalf("expected full texture crop, got %+v", crop)
	}
}

func TestComputeTexCropCapsAtMaxVStart(t *testing.T) {
	// scrolled far past the texture height entirely
	crop := ComputeTexCrop(1000, 20, 100)
	if crop.VStart > maxTexVStart {
		t.Fatalf("expected VStart capped at %f, got %f", maxTexVStart, crop.VStart)
	}
	if crop.VisibleHeightPx < 1 {
		t.Fatalf("expected at least 1px visible, got %f", crop.VisibleHeightPx)
	}
}

func TestComputeTexCropPartialScroll(t *testing.T) {
	// 5 rows * 20px = 100px scrolled out of a 400px texture -> vStart 0.25
	crop := ComputeTexCrop(5, 20, 400)
	if crop.VStart < 0.24 || crop.VStart > 0.26 {
		t.Fatalf("expected vStart ~0.25, got %f", crop.VStart)
	}
}

func TestPositionGraphicsPopulatesCacheAndLayout(t *testing.T) {
	cache := NewTextureCache(8)
	pixels := make([]byte, 10*20*4)
	graphics := []TerminalGraphic{
		{ID: 1, Pixels: pixels, Width: 10, Height: 20, Row: 2, Col: 3, CellDimensions: [2]int{10, 20}},
	}

	positioned := PositionGraphics(cache, graphics, 0, 0, 24, 10, 20)
	if len(positioned) != 1 {
		t.Fatalf("expected 1 positioned graphic, got %d", len(positioned))
	}
	if positioned[0].ScreenRow != 2 {
		t.Fatalf("expected screen row 2, got %d", positioned[0].ScreenRow)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected texture cache to hold 1 entry, got %d", cache.Len())
	}
}
