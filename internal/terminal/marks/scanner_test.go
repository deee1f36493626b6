package marks

import "testing"

func fixedCursor(col, row, scrollback int) CursorFunc {
	return func() (int, int, int) { return col, row, scrollback }
}

func TestScannerParsesPromptStartMarker(t *testing.T) {
	var s Scanner
	var written []byte
	data := []byte("hello\x1b]133;A\x07world")

	events := s.Process(data, func(b []byte) { written = append(written, b...) }, fixedCursor(0, 3, 100))

	if string(written) != "helloworld" {
		t.Fatalf("expected marker stripped from written bytes, got %q", written)
	}
	if len(events) != 1 || events[0].Kind != PromptStart {
		t.Fatalf("expected one PromptStart event, got %+v", events)
	}
	if events[0].ScrollbackLen != 100 || events[0].CursorRow != 3 {
		t.Fatalf("expected cursor sampled at parse time, got %+v", events[0])
	}
}

func TestScannerParsesCommandFinishedExitCode(t *testing.T) {
	var s Scanner
	data := []byte("\x1b]133;D;127\x07")

	events := s.Process(data, func([]byte) {}, fixedCursor(0, 0, 0))

	if len(events) != 1 || events[0].Kind != CommandFinished {
		t.Fatalf("expected one CommandFinished event, got %+v", events)
	}
	if events[0].ExitCode == nil || *events[0].ExitCode != 127 {
		t.Fatalf("expected exit code 127, got %+v", events[0].ExitCode)
	}
}

func TestScannerHandlesMarkerSplitAcrossReads(t *testing.T) {
	var s Scanner
	first := []byte("abc\x1b]133")
	second := []byte(";B\x07def")

	var written []byte
	ev1 := s.Process(first, func(b []byte) { written = append(written, b...) }, fixedCursor(0, 0, 0))
	if len(ev1) != 0 {
		t.Fatalf("expected no events until the marker completes, got %+v", ev1)
	}

	ev2 := s.Process(second, func(b []byte) { written = append(written, b...) }, fixedCursor(5, 1, 0))
	if len(ev2) != 1 || ev2[0].Kind != CommandStart {
		t.Fatalf("expected one CommandStart event once the marker completes, got %+v", ev2)
	}
	if string(written) != "abcdef" {
		t.Fatalf("expected plain bytes from both reads preserved, got %q", written)
	}
}

func TestScannerIgnoresUnrelatedEscapeSequences(t *testing.T) {
	var s Scanner
	var written []byte
	data := []byte("\x1b[31mred\x1b[0m")

	events := s.Process(data, func(b []byte) { written = append(written, b...) }, fixedCursor(0, 0, 0))

	if len(events) != 0 {
		t.Fatalf("expected no shell-integration events, got %+v", events)
	}
	if string(written) != string(data) {
		t.Fatalf("expected unrelated escape sequences passed through untouched, got %q", written)
	}
}
