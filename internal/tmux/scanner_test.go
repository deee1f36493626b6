package tmux

import "testing"

func TestLineScannerAttachSequence(t *testing.T) {
	var s LineScanner

	n, ok := s.Feed("%begin 1700000000 1 0")
	if !ok || n.Kind != NotificationControlModeStarted {
		t.Fatalf("want ControlModeStarted, got %+v ok=%v", n, ok)
	}

	n, ok = s.Feed("%session-changed $1 dev")
	if !ok || n.Kind != NotificationSessionChanged || n.SessionName != "dev" {
		t.Fatalf("want SessionChanged dev, got %+v ok=%v", n, ok)
	}

	n, ok = s.Feed("%end 1700000000 1 0")
	if !ok || n.Kind != NotificationSessionStarted {
		t.Fatalf("want synthesized SessionStarted, got %+v ok=%v", n, ok)
	}

	// A second begin/end block (e.g. from a later command reply) must
	// not re-synthesize SessionStarted or re-emit ControlModeStarted.
	_, ok = s.Feed("%begin 1700000001 2 0")
	if ok {
		t.Fatalf("second %%begin should be swallowed")
	}
	_, ok = s.Feed("%end 1700000001 2 0")
	if ok {
		t.Fatalf("second %%end should be swallowed")
	}
}

func TestLineScannerWindowAndPaneEvents(t *testing.T) {
	var s LineScanner

	n, ok := s.Feed("%window-add @3")
	if !ok || n.Kind != NotificationWindowAdd || n.WindowID != "@3" {
		t.Fatalf("window-add: got %+v ok=%v", n, ok)
	}

	n, ok = s.Feed("%window-renamed @3 build-logs")
	if !ok || n.Kind != NotificationWindowRenamed || n.WindowName != "build-logs" {
		t.Fatalf("window-renamed: got %+v ok=%v", n, ok)
	}

	n, ok = s.Feed("%pane-focus-changed %7")
	if !ok || n.Kind != NotificationPaneFocusChanged || n.PaneID != "7" {
		t.Fatalf("pane-focus-changed: got %+v ok=%v", n, ok)
	}

	n, ok = s.Feed("%output %7 hello\\r\\n")
	if !ok || n.Kind != NotificationOutput || n.PaneID != "7" {
		t.Fatalf("output: got %+v ok=%v", n, ok)
	}

	n, ok = s.Feed("%exit")
	if !ok || n.Kind != NotificationSessionEnded {
		t.Fatalf("exit: got %+v ok=%v", n, ok)
	}
}

func TestLineScannerPassesThroughNonNotificationLines(t *testing.T) {
	var s LineScanner
	_, ok := s.Feed("plain command output, not a control line")
	if ok {
		t.Fatalf("non-%% line should not be classified as a notification")
	}
}

func TestLineScannerUnrecognizedTagReportsError(t *testing.T) {
	var s LineScanner
	n, ok := s.Feed("%something-new-tmux-added @1")
	if !ok || n.Kind != NotificationError {
		t.Fatalf("want Error for unrecognized tag, got %+v ok=%v", n, ok)
	}
}
