package tmux

import "strings"

// LineScanner turns tmux control-mode wire lines ("%begin ...", "%output
// %1 ...", etc.) into the Notification values Session.ProcessNotification
// consumes. Lines that aren't part of the control protocol (plain output
// mirrored inside a %begin/%end command-reply block) are reported back
// to the caller as pass-through so they can still reach the VT emulator.
type LineScanner struct {
	sawFirstBegin bool
	sawFirstEnd   bool
}

// Feed classifies one already-newline-split line. ok is false when line
// carries no notification (either literal command output or a
// %begin/%end delimiter this scanner has already consumed).
func (s *LineScanner) Feed(line string) (n Notification, ok bool) {
	if !strings.HasPrefix(line, "%") {
		return Notification{}, false
	}

	fields := strings.Fields(line)
	tag := fields[0]
	rest := fields[1:]

	switch tag {
	case "%begin":
		if !s.sawFirstBegin {
			s.sawFirstBegin = true
			return Notification{Kind: NotificationControlModeStarted}, true
		}
		return Notification{}, false

	case "%end":
		if s.sawFirstBegin && !s.sawFirstEnd {
			s.sawFirstEnd = true
			return Notification{Kind: NotificationSessionStarted}, true
		}
		return Notification{}, false

	case "%error":
		return Notification{Kind: NotificationError, Message: line}, true

	case "%exit":
		return Notification{Kind: NotificationSessionEnded}, true

	case "%session-changed":
		if len(rest) >= 2 {
			return Notification{Kind: NotificationSessionChanged, SessionName: rest[1]}, true
		}
		return Notification{}, false

	case "%window-add":
		if len(rest) >= 1 {
			return Notification{Kind: NotificationWindowAdd, WindowID: rest[0]}, true
		}
		return Notification{}, false

	case "%window-close":
		if len(rest) >= 1 {
			return Notification{Kind: NotificationWindowClose, WindowID: rest[0]}, true
		}
		return Notification{}, false

	case "%window-renamed":
		if len(rest) >= 2 {
			return Notification{Kind: NotificationWindowRenamed, WindowID: rest[0], WindowName: strings.Join(rest[1:], " ")}, true
		}
		return Notification{}, false

	case "%layout-change":
		if len(rest) >= 1 {
			return Notification{Kind: NotificationLayoutChange, WindowID: rest[0]}, true
		}
		return Notification{}, false

	case "%output":
		if len(rest) >= 1 {
			output := ""
			if len(rest) > 1 {
				output = strings.Join(rest[1:], " ")
			}
			return Notification{Kind: NotificationOutput, PaneID: strings.TrimPrefix(rest[0], "%"), Output: output}, true
		}
		return Notification{}, false

	case "%pane-focus-changed":
		if len(rest) >= 1 {
			return Notification{Kind: NotificationPaneFocusChanged, PaneID: strings.TrimPrefix(rest[0], "%")}, true
		}
		return Notification{}, false

	default:
		return Notification{Kind: NotificationError, Message: "unrecognized control-mode line: " + line}, true
	}
}
