package terminal

import (
	"strings"

	"github.com/ellery/par-term/internal/terminal/marks"
	"github.com/hinshun/vt10x"
)

// scrollbackBase is the absolute line number of the oldest row the
// scrollback ring still retains. scrollbackPushed only ever grows, so
// this stays stable as the ring's oldest line, even though the ring's
// own index 0 keeps sliding forward as older lines are evicted.
func (p *Panel) scrollbackBase() int {
	base := p.scrollbackPushed - p.Scrollback.Count()
	if base < 0 {
		base = 0
	}
	return base
}

// panelGrid adapts a Panel's grid to marks.Grid, so command-text
// extraction can read forward from where a CommandStart marker landed,
// whether that row has since scrolled into the ring or is still live.
// The vendored VT emulator doesn't track which rows were produced by a
// soft wrap versus a hard newline, so wrapped is approximated: a row
// counts as wrapped when its last column holds non-blank content, the
// same heuristic terminals without wrap metadata fall back to.
type panelGrid struct {
	p *Panel
}

func (g panelGrid) RowText(absoluteLine int) (string, bool) {
	base := g.p.scrollbackBase()
	if absoluteLine < base {
		return "", false
	}

	if absoluteLine < g.p.scrollbackPushed {
		line := g.p.Scrollback.Get(absoluteLine - base)
		if line == nil {
			return "", false
		}
		return line.ToString(), rowLooksWrapped(line.Cells)
	}

	row := absoluteLine - g.p.scrollbackPushed
	cols, rows := g.p.VT.Size()
	if row < 0 || row >= rows {
		return "", false
	}
	cells := make([]vt10x.Glyph, cols)
	for x := 0; x < cols; x++ {
		cells[x] = g.p.VT.Cell(x, row)
	}
	return glyphRowToString(cells), rowLooksWrapped(cells)
}

func glyphRowToString(cells []vt10x.Glyph) string {
	var b strings.Builder
	for _, c := range cells {
		if c.Char == 0 {
			b.WriteRune(' ')
		} else {
			b.WriteRune(c.Char)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func rowLooksWrapped(cells []vt10x.Glyph) bool {
	if len(cells) == 0 {
		return false
	}
	last := cells[len(cells)-1]
	return last.Char != 0 && last.Char != ' '
}

// marksCursor reports the live cursor position and the total count of
// lines ever pushed into scrollback, the inputs marks.Scanner needs to
// stamp each shell-integration event with its absolute line at the
// moment it was parsed.
func (p *Panel) marksCursor() (col, row, scrollbackLen int) {
	cursor := p.VT.Cursor()
	return cursor.X, cursor.Y, p.scrollbackPushed
}

// feedMarksScanner runs raw PTY bytes through the shell-integration
// scanner before they reach the VT emulator, recovering OSC 133 markers
// that would otherwise just be interpreted (and discarded) as an
// unrecognized escape sequence.
func (p *Panel) feedMarksScanner(data []byte) {
	events := p.marksScanner.Process(data, func(b []byte) { p.VT.Write(b) }, p.marksCursor)
	if len(events) == 0 {
		return
	}
	p.marksManager.Drain(events, panelGrid{p: p})
	p.capturePrettifierOutput(events)
}

// PreviousPromptLine returns the absolute line of the nearest prompt
// start before fromLine, if any.
func (p *Panel) PreviousPromptLine(fromLine int) (int, bool) {
	m, ok := p.marksManager.Index.PreviousPrompt(fromLine)
	return m.AbsoluteLine, ok
}

// NextPromptLine returns the absolute line of the nearest prompt start
// after fromLine, if any.
func (p *Panel) NextPromptLine(fromLine int) (int, bool) {
	m, ok := p.marksManager.Index.NextPrompt(fromLine)
	return m.AbsoluteLine, ok
}

// SearchVisiblePane searches the panel's currently visible rows.
func (p *Panel) SearchVisiblePane(query string) []marks.SearchResult {
	_, rows := p.VT.Size()
	return marks.SearchVisible(query, visiblePane{p: p, rows: rows}, p.scrollbackPushed)
}

// SearchScrollbackPane searches the panel's retained scrollback, most
// recent lines first.
func (p *Panel) SearchScrollbackPane(query string, maxLines *int) []marks.SearchResult {
	if p.Scrollback == nil {
		return nil
	}
	return marks.SearchScrollback(query, scrollbackPane{p: p}, p.scrollbackBase(), maxLines)
}

type visiblePane struct {
	p    *Panel
	rows int
}

func (v visiblePane) VisibleRowCount() int { return v.rows }
func (v visiblePane) VisibleRowText(row int) string {
	cols, _ := v.p.VT.Size()
	cells := make([]vt10x.Glyph, cols)
	for x := 0; x < cols; x++ {
		cells[x] = v.p.VT.Cell(x, row)
	}
	return glyphRowToString(cells)
}

type scrollbackPane struct {
	p *Panel
}

func (s scrollbackPane) Count() int { return s.p.Scrollback.Count() }
func (s scrollbackPane) LineText(index int) string {
	line := s.p.Scrollback.Get(index)
	if line == nil {
		return ""
	}
	return line.ToString()
}
