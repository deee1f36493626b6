package screen

import "testing"

func TestRequestRedrawIsNonBlocking(t *testing.T) {
	for i := 0; i < cap(drawChan)+5; i++ {
		RequestRedraw()
	}
	if len(DrawChan()) == 0 {
		t.Error("expected at least one queued redraw request")
	}
}

func TestFakeCursorTracksShowAndHide(t *testing.T) {
	ShowFakeCursor(3, 4)
	x, y, visible := FakeCursorPosition()
	if !visible || x != 3 || y != 4 {
		t.Errorf("unexpected fake cursor state after show: x=%d y=%d visible=%v", x, y, visible)
	}

	HideFakeCursor()
	_, _, visible = FakeCursorPosition()
	if visible {
		t.Error("expected fake cursor to be hidden")
	}
}

func TestSizeWithoutInitReturnsZero(t *testing.T) {
	Screen = nil
	w, h := Size()
	if w != 0 || h != 0 {
		t.Errorf("expected 0,0 before Init, got %d,%d", w, h)
	}
}
