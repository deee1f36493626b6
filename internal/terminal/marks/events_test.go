package marks

import "testing"

type fakeGrid struct {
	rows    map[int]string
	wrapped map[int]bool
}

func (g *fakeGrid) RowText(line int) (string, bool) {
	return g.rows[line], g.wrapped[line]
}

func TestManagerDrainExtractsCommandTextOnTransition(t *testing.T) {
	grid := &fakeGrid{
		rows:    map[int]string{5: "$ echo hello"},
		wrapped: map[int]bool{5: false},
	}

	var m Manager
	events := []ShellIntegrationEvent{
		{Kind: PromptStart, CursorRow: 5, ScrollbackLen: 0, CursorCol: 0},
		{Kind: CommandStart, CursorRow: 5, ScrollbackLen: 0, CursorCol: 2},
		{Kind: CommandExecuted, CursorRow: 6, ScrollbackLen: 0, CursorCol: 0},
	}
	m.Drain(events, grid)

	if m.Index.Len() != 3 {
		t.Fatalf("expected 3 marks, got %d", m.Index.Len())
	}
	commandStart := m.Index.All()[1]
	if commandStart.Kind != CommandStart {
		t.Fatalf("expected second mark to be CommandStart, got %v", commandStart.Kind)
	}
	if commandStart.CommandText != "echo hello" {
		t.Fatalf("expected extracted command text %q, got %q", "echo hello", commandStart.CommandText)
	}
}

func TestManagerDrainFollowsWrapChain(t *testing.T) {
	grid := &fakeGrid{
		rows: map[int]string{
			5: "$ echo a very long comm",
			6: "and that wraps",
		},
		wrapped: map[int]bool{5: true, 6: false},
	}

	var m Manager
	events := []ShellIntegrationEvent{
		{Kind: CommandStart, CursorRow: 5, ScrollbackLen: 0, CursorCol: 2},
		{Kind: CommandFinished, CursorRow: 7, ScrollbackLen: 0, CursorCol: 0},
	}
	m.Drain(events, grid)

	got := m.Index.All()[0].CommandText
	want := "echo a very long command that wraps"
	if got != want {
		t.Fatalf("expected wrapped command text %q, got %q", want, got)
	}
}

func TestAbsoluteLineUsesScrollbackLenPlusCursorRow(t *testing.T) {
	ev := ShellIntegrationEvent{CursorRow: 4, ScrollbackLen: 200}
	if got := absoluteLine(ev); got != 204 {
		t.Fatalf("expected absolute line 204, got %d", got)
	}
}
