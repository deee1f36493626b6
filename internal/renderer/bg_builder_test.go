package renderer

import "testing"

func testGrid() Grid {
	return Grid{
		Cols:       10,
		Rows:       4,
		CellWidth:  10,
		CellHeight: 20,
		WindowPadding: 0,
	}
}

func testConfig() FrameConfig {
	return FrameConfig{Width: 100, Height: 80}
}

func newTestRenderer() *CellRenderer {
	return &CellRenderer{
		Grid:             testGrid(),
		Config:           testConfig(),
		BackgroundColor:  [3]float32{0, 0, 0},
		WindowOpacity:    1.0,
		IsFocused:        true,
		ScaleFactor:      1.0,
	}
}

func solidRow(n int, bg [3]uint8) []Cell {
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', BgColor: bg}
	}
	return cells
}

func TestBuildRowBackgroundInstancesAllDefaultBgYieldsNoQuads(t *testing.T) {
	r := newTestRenderer()
	row := solidRow(10, [3]uint8{0, 0, 0})
	out := r.BuildRowBackgroundInstances(0, row)
	if len(out) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(out))
	}
	for i, inst := range out {
		if inst != zeroInstance {
			t.Fatalf("expected zero instance at %d, got %+v", i, inst)
		}
	}
}

func TestBuildRowBackgroundInstancesMergesRun(t *testing.T) {
	r := newTestRenderer()
	row := solidRow(10, [3]uint8{255, 0, 0})
	out := r.BuildRowBackgroundInstances(0, row)

	nonZero := 0
	for _, inst := range out {
		if inst != zeroInstance {
			nonZero++
		}
	}
	if nonZero != 1 {
		t.Fatalf("expected the whole run merged into 1 instance, got %d non-zero", nonZero)
	}
}

func TestBuildRowBackgroundInstancesBreaksOnColorChange(t *testing.T) {
	r := newTestRenderer()
	row := append(solidRow(5, [3]uint8{255, 0, 0}), solidRow(5, [3]uint8{0, 255, 0})...)
	out := r.BuildRowBackgroundInstances(0, row)

	nonZero := 0
	for _, inst := range out {
		if inst != zeroInstance {
			nonZero++
		}
	}
	if nonZero != 2 {
		t.Fatalf("expected 2 merged runs across the color change, got %d", nonZero)
	}
}

func TestBuildRowBackgroundInstancesCursorBreaksRun(t *testing.T) {
	r := newTestRenderer()
	r.Cursor = CursorState{Col: 5, Row: 0, Opacity: 1, Style: CursorSteadyBlock, Color: [3]float32{1, 1, 1}}
	row := solidRow(10, [3]uint8{255, 0, 0})
	out := r.BuildRowBackgroundInstances(0, row)

	nonZero := 0
	for _, inst := range out {
		if inst != zeroInstance {
			nonZero++
		}
	}
	if nonZero != 3 {
		t.Fatalf("expected run split into pre/cursor/post (3 instances), got %d", nonZero)
	}
}

func TestBuildRowBackgroundInstancesUnfocusedHiddenCursorDoesNotBreakRun(t *testing.T) {
	r := newTestRenderer()
	r.IsFocused = false
	r.Cursor = CursorState{
		Col: 5, Row: 0, Opacity: 1, Style: CursorSteadyBlock,
		Color: [3]float32{1, 1, 1}, UnfocusedStyle: UnfocusedCursorHidden,
	}
	row := solidRow(10, [3]uint8{255, 0, 0})
	out := r.BuildRowBackgroundInstances(0, row)

	nonZero := 0
	for _, inst := range out {
		if inst != zeroInstance {
			nonZero++
		}
	}
	if nonZero != 1 {
		t.Fatalf("hidden unfocused cursor should not split the run, got %d instances", nonZero)
	}
}

func TestBuildCursorOverlayInstancesReturnsFixedSlotCount(t *testing.T) {
	r := newTestRenderer()
	r.Cursor = CursorState{Col: 2, Row: 1, Opacity: 1, Style: CursorSteadyBlock, Color: [3]float32{1, 1, 1}}
	slots := r.BuildCursorOverlayInstances()
	if len(slots) != CursorOverlaySlots {
		t.Fatalf("expected %d slots, got %d", CursorOverlaySlots, len(slots))
	}
}

func TestBuildCursorOverlayInstancesGuideSlot(t *testing.T) {
	r := newTestRenderer()
	r.Cursor = CursorState{
		Col: 2, Row: 1, Opacity: 1, Style: CursorSteadyBlock, Color: [3]float32{1, 1, 1},
		GuideEnabled: true, GuideColor: [4]float32{0.2, 0.2, 0.2, 0.5},
	}
	slots := r.BuildCursorOverlayInstances()
	if slots[CursorOverlaySlotGuide] == zeroInstance {
		t.Fatalf("expected guide slot to be populated")
	}
	if slots[CursorOverlaySlotShadow] != zeroInstance {
		t.Fatalf("expected shadow slot to remain zero when disabled")
	}
}

func TestBuildCursorOverlayInstancesBoostSlotCapsAlpha(t *testing.T) {
	r := newTestRenderer()
	r.Cursor = CursorState{
		Col: 2, Row: 1, Opacity: 1, Style: CursorSteadyBlock, Color: [3]float32{1, 1, 1},
		Boost: 10.0, BoostColor: [3]float32{1, 1, 0},
	}
	slots := r.BuildCursorOverlayInstances()
	alpha := slots[CursorOverlaySlotBoost].Color[3]
	if alpha > CursorBoostMaxAlpha {
		t.Fatalf("boost alpha %f exceeds cap %f", alpha, CursorBoostMaxAlpha)
	}
}

func TestBuildCursorOverlayInstancesHollowBorderOnlyWhenUnfocusedHollow(t *testing.T) {
	r := newTestRenderer()
	r.IsFocused = false
	r.Cursor = CursorState{
		Col: 2, Row: 1, Opacity: 1, Style: CursorSteadyBlock, Color: [3]float32{1, 1, 1},
		UnfocusedStyle: UnfocusedCursorHollow,
	}
	slots := r.BuildCursorOverlayInstances()
	for _, slot := range []int{CursorOverlaySlotBorderTop, CursorOverlaySlotBorderBottom, CursorOverlaySlotBorderLeft, CursorOverlaySlotBorderRight} {
		if slots[slot] == zeroInstance {
			t.Fatalf("expected hollow border slot %d to be populated", slot)
		}
	}
}

func TestBuildCursorOverlayInstancesNoHollowBorderWhenFocused(t *testing.T) {
	r := newTestRenderer()
	r.Cursor = CursorState{
		Col: 2, Row: 1, Opacity: 1, Style: CursorSteadyBlock, Color: [3]float32{1, 1, 1},
		UnfocusedStyle: UnfocusedCursorHollow,
	}
	slots := r.BuildCursorOverlayInstances()
	for _, slot := range []int{CursorOverlaySlotBorderTop, CursorOverlaySlotBorderBottom, CursorOverlaySlotBorderLeft, CursorOverlaySlotBorderRight} {
		if slots[slot] != zeroInstance {
			t.Fatalf("focused cursor should not draw a hollow border, slot %d populated", slot)
		}
	}
}

func TestBuildSeparatorInstancesOneEntryPerRow(t *testing.T) {
	r := newTestRenderer()
	marks := []SeparatorMark{{ScreenRow: 1, ExitCode: 0}, {ScreenRow: 3, ExitCode: 1}}
	out := r.BuildSeparatorInstances(marks, 2, func(exitCode int, custom *[4]float32) [4]float32 {
		if exitCode != 0 {
			return [4]float32{1, 0, 0, 1}
		}
		return [4]float32{0, 1, 0, 1}
	})
	if len(out) != r.Grid.Rows {
		t.Fatalf("expected %d entries, got %d", r.Grid.Rows, len(out))
	}
	if out[0] != zeroInstance {
		t.Fatalf("row 0 has no mark, expected zero instance")
	}
	if out[1] == zeroInstance {
		t.Fatalf("row 1 should have a populated separator instance")
	}
	if out[3].Color != [4]float32{1, 0, 0, 1} {
		t.Fatalf("expected row 3's error color, got %+v", out[3].Color)
	}
}

func TestBuildGutterInstancesIgnoresOutOfRangeRow(t *testing.T) {
	r := newTestRenderer()
	marks := []GutterMark{{ScreenRow: 99, Color: [4]float32{1, 1, 1, 1}}}
	out := r.BuildGutterInstances(marks)
	for i, inst := range out {
		if inst != zeroInstance {
			t.Fatalf("expected no instances populated, row %d was set", i)
		}
	}
}

func TestBuildGutterInstancesPopulatesMarkedRow(t *testing.T) {
	r := newTestRenderer()
	marks := []GutterMark{{ScreenRow: 2, Color: [4]float32{0, 0.5, 1, 1}}}
	out := r.BuildGutterInstances(marks)
	if out[2] == zeroInstance {
		t.Fatalf("expected row 2 to be populated")
	}
	if out[2].Color != [4]float32{0, 0.5, 1, 1} {
		t.Fatalf("unexpected color %+v", out[2].Color)
	}
}
