package marks

import "strings"

// Grid is the minimal read surface marks needs from a terminal grid to
// pull command text back out after the fact: the text of one absolute
// line, and whether that line continues (via a wrap, not a newline) onto
// the next one.
type Grid interface {
	RowText(absoluteLine int) (text string, wrapped bool)
}

// maxCommandTextRows bounds the forward scan used to recover command
// text after a CommandStart marker, so a shell that never emits a
// CommandExecuted/CommandFinished marker (or a command typed across an
// unexpectedly large number of wrapped rows) can't make extraction scan
// unboundedly far into the grid.
const maxCommandTextRows = 5

// Manager turns a stream of ShellIntegrationEvents into Marks appended
// to an Index, including synthesizing CommandText for the CommandStart
// mark once the shell reports the command has moved on to execution.
type Manager struct {
	Index Index

	pending     *Mark
	pendingCol  int
}

// absoluteLine implements absolute_line = cursor_line ?? (scrollback_len
// + cursor_row): CursorLine from OSC 133's own reporting isn't used here
// because the vendored emulator doesn't surface a marker-scoped line
// number distinct from the live cursor row, so every event derives its
// line the same way, from the cursor position captured at parse time.
func absoluteLine(ev ShellIntegrationEvent) int {
	return ev.ScrollbackLen + ev.CursorRow
}

// Drain appends one mark per event to m.Index, in order, using grid to
// recover command text when a CommandStart mark's command finishes
// being typed.
func (m *Manager) Drain(events []ShellIntegrationEvent, grid Grid) {
	for _, ev := range events {
		line := absoluteLine(ev)

		if m.pending != nil && ev.Kind != CommandStart {
			m.pending.CommandText = extractCommandText(grid, m.pending.AbsoluteLine, m.pendingCol)
			m.pending = nil
		}

		mark := Mark{
			AbsoluteLine: line,
			Kind:         ev.Kind,
			ExitCode:     ev.ExitCode,
		}
		m.Index.Add(mark)

		if ev.Kind == CommandStart {
			added := &m.Index.marks[len(m.Index.marks)-1]
			m.pending = added
			m.pendingCol = ev.CursorCol
		}
	}
}

// extractCommandText reads forward from (startLine, startCol), following
// wrapped rows, up to maxCommandTextRows, concatenating and trimming the
// result.
func extractCommandText(grid Grid, startLine, startCol int) string {
	if grid == nil {
		return ""
	}

	var b strings.Builder
	line := startLine
	first := true
	for i := 0; i < maxCommandTextRows; i++ {
		text, wrapped := grid.RowText(line)
		if first {
			if startCol >= 0 && startCol < len(text) {
				text = text[startCol:]
			}
			first = false
		}
		b.WriteString(text)
		if !wrapped {
			break
		}
		line++
	}
	return strings.TrimSpace(b.String())
}
