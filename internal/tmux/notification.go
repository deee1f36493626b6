package tmux

// NotificationKind enumerates the control-mode notifications the outer
// terminal parser extracts from tmux's "%..." wire lines.
type NotificationKind int

const (
	NotificationControlModeStarted NotificationKind = iota // %begin
	NotificationSessionStarted                              // synthesized once %begin's session attach succeeds
	NotificationSessionEnded                                // %exit
	NotificationSessionChanged                              // %session-changed
	NotificationWindowAdd                                    // %window-add
	NotificationWindowClose                                  // %window-close
	NotificationWindowRenamed                                // %window-renamed
	NotificationLayoutChange                                 // %layout-change
	NotificationOutput                                       // %output
	NotificationPaneFocusChanged                             // %pane-focus-changed
	NotificationError                                        // parse/protocol error
)

// Notification is a single parsed control-mode event, fields populated
// according to Kind.
type Notification struct {
	Kind NotificationKind

	SessionName string
	WindowID    string
	WindowName  string
	PaneID      string
	Output      string
	Message     string
}
