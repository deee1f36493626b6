// Package screen wraps the single tcell.Screen that par-term's cmd
// binaries draw into, giving panel/layout/display code one shared,
// lock-protected handle instead of threading a *tcell.Screen parameter
// through every draw call.
package screen

import (
	"fmt"
	"sync"

	"github.com/micro-editor/tcell/v2"
)

// Screen is the active terminal screen. Set by Init, nil before it and
// after Fini.
var Screen tcell.Screen

// Events carries raw tcell events from the poll goroutine started by
// cmd/par-term's main loop to whichever code is currently reading input.
var Events chan tcell.Event

// Lock serializes concurrent access to Screen between the event-poll
// goroutine and the draw goroutine.
var Lock sync.Mutex

var fakeCursorX, fakeCursorY int
var fakeCursorVisible bool

var drawChan = make(chan bool, 16)

// DrawChan returns the channel that Redraw requests are queued on. The
// main loop drains it before blocking on Events so a redraw requested
// before the loop started isn't lost, and so multiple redraw requests
// made while busy collapse into a single repaint.
func DrawChan() chan bool {
	return drawChan
}

// RequestRedraw queues a non-blocking redraw request on DrawChan.
func RequestRedraw() {
	select {
	case drawChan <- true:
	default:
	}
}

// Init creates and activates the tcell screen. Must be called exactly
// once before any draw call.
func Init() error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	Screen = s
	return nil
}

// SetContent forwards to Screen.SetContent, guarded by Lock so draw calls
// from multiple panels don't race the event-poll goroutine's reads.
func SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	Lock.Lock()
	defer Lock.Unlock()
	if Screen == nil {
		return
	}
	Screen.SetContent(x, y, mainc, combc, style)
}

// ShowCursor moves the real terminal cursor to x, y.
func ShowCursor(x, y int) {
	Lock.Lock()
	defer Lock.Unlock()
	if Screen == nil {
		return
	}
	Screen.ShowCursor(x, y)
}

// HideCursor hides the real terminal cursor, used while a fake cursor
// overlay (rendered via SetContent with a reverse-video style) is active.
func HideCursor() {
	Lock.Lock()
	defer Lock.Unlock()
	if Screen == nil {
		return
	}
	Screen.HideCursor()
}

// ShowFakeCursor draws a reverse-video block at x, y instead of moving the
// real cursor, used by panels that need a visible cursor inside a region
// the real terminal cursor can't be parked in (e.g. an inactive pane).
func ShowFakeCursor(x, y int) {
	fakeCursorX, fakeCursorY = x, y
	fakeCursorVisible = true
	HideCursor()
}

// HideFakeCursor clears the fake cursor overlay state. The caller is
// responsible for repainting the cell it previously occupied.
func HideFakeCursor() {
	fakeCursorVisible = false
}

// FakeCursorPosition reports the last position set by ShowFakeCursor and
// whether it is still active.
func FakeCursorPosition() (x, y int, visible bool) {
	return fakeCursorX, fakeCursorY, fakeCursorVisible
}

// Size returns the current terminal dimensions.
func Size() (int, int) {
	if Screen == nil {
		return 0, 0
	}
	return Screen.Size()
}

// Redraw queues a redraw request on DrawChan so the main loop repaints on
// its next pass, without blocking the caller (a timer tick, an async PTY
// read) on the draw goroutine.
func Redraw() {
	RequestRedraw()
}

// TermMessage prints args to the screen status area, falling back to
// stderr if the screen isn't initialized yet (startup errors).
func TermMessage(args ...interface{}) {
	msg := fmt.Sprint(args...)
	if Screen == nil {
		fmt.Println(msg)
		return
	}
	w, h := Screen.Size()
	Lock.Lock()
	for x := 0; x < w; x++ {
		Screen.SetContent(x, h-1, ' ', nil, tcell.StyleDefault)
	}
	for i, r := range msg {
		if i >= w {
			break
		}
		Screen.SetContent(i, h-1, r, nil, tcell.StyleDefault.Reverse(true))
	}
	Screen.Show()
	Lock.Unlock()
}

// TermPrompt draws msg and waits for the user to type one of choices
// (case-insensitive), returning the matched choice. If yn is true, "y"
// and "n" are accepted as aliases for the first two choices.
func TermPrompt(msg string, choices []string, yn bool) string {
	TermMessage(msg)
	if Screen == nil {
		return ""
	}
	for {
		ev := Screen.PollEvent()
		keyEv, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		r := keyEv.Rune()
		for _, c := range choices {
			if len(c) > 0 && (rune(c[0]) == r) {
				return c
			}
		}
		if yn {
			if r == 'y' || r == 'Y' {
				return choices[0]
			}
			if r == 'n' || r == 'N' {
				if len(choices) > 1 {
					return choices[1]
				}
			}
		}
		if keyEv.Key() == tcell.KeyEscape || keyEv.Key() == tcell.KeyCtrlC {
			return ""
		}
	}
}
