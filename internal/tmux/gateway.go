// Package tmux implements the tmux control-mode gateway: a state machine
// that runs "tmux -CC" inside an existing PTY, consumes notifications the
// terminal parser extracts from tmux's control-mode output, and routes
// keystrokes back to tmux via send-keys commands.
//
// The gateway never spawns a separate subprocess; all bytes flow through
// the PTY the caller already owns.
package tmux

import "sync"

// GatewayState is the control-mode connection lifecycle.
type GatewayState int

const (
	GatewayInactive GatewayState = iota
	GatewayInitiating
	GatewayDetecting
	GatewayConnected
	GatewayEnded
)

func (s GatewayState) String() string {
	switch s {
	case GatewayInactive:
		return "Inactive"
	case GatewayInitiating:
		return "Initiating"
	case GatewayDetecting:
		return "Detecting"
	case GatewayConnected:
		return "Connected"
	case GatewayEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// SessionState mirrors the outer session's connection status, distinct
// from GatewayState (the control-mode sub-protocol's own state).
type SessionState int

const (
	SessionDisconnected SessionState = iota
	SessionConnecting
	SessionConnected
	SessionEnded
)

// EndReason records why a gateway transitioned to GatewayEnded.
type EndReason int

const (
	EndReasonNone EndReason = iota
	EndReasonInitFailure
	EndReasonCreationFailure
	EndReasonNormal
)

// Window is minimal per-window bookkeeping the gateway maintains from
// %window-add / %window-close / %window-renamed / %layout-change
// notifications.
type Window struct {
	ID   string
	Name string
}

// Session tracks a single tmux control-mode gateway instance.
type Session struct {
	mu sync.Mutex

	sessionState SessionState
	gatewayState GatewayState
	endReason    EndReason

	sessionName string
	hasName     bool

	windows       map[string]*Window
	activeWindow  string
	hasActiveWin  bool
	focusedPane   string
	hasFocusedPane bool
}

// NewSession returns a Session in SessionDisconnected/GatewayInactive.
func NewSession() *Session {
	return &Session{
		sessionState: SessionDisconnected,
		gatewayState: GatewayInactive,
		windows:      make(map[string]*Window),
	}
}

// SessionStateValue returns the current outer session state.
func (s *Session) SessionStateValue() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionState
}

// GatewayStateValue returns the current control-mode gateway state.
func (s *Session) GatewayStateValue() GatewayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gatewayState
}

// IsGatewayActive reports whether the gateway is in a state where
// send-keys should be rewritten through tmux (Initiating, Detecting, or
// Connected).
func (s *Session) IsGatewayActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.gatewayState {
	case GatewayInitiating, GatewayDetecting, GatewayConnected:
		return true
	default:
		return false
	}
}

// SessionName returns the attached session's name, if known.
func (s *Session) SessionName() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionName, s.hasName
}

// BeginInitiating transitions Inactive -> Initiating after a new/attach
// command has been written to the PTY.
func (s *Session) BeginInitiating() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gatewayState = GatewayInitiating
	s.sessionState = SessionConnecting
}

// ProcessNotification applies a TmuxNotification to the gateway state
// machine per the exact transition table:
//
//	ControlModeStarted  Initiating -> Detecting
//	SessionStarted      Initiating|Detecting -> Connected
//	SessionEnded        Connected -> Ended; Detecting -> Ended(creation
//	                     failure); Initiating -> Ended(init failure)
//	Error                Initiating -> Ended; else ignored (logged)
//
// Other notification kinds update window/pane bookkeeping and do not
// affect gateway state.
func (s *Session) ProcessNotification(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch n.Kind {
	case NotificationControlModeStarted:
		if s.gatewayState == GatewayInitiating {
			s.gatewayState = GatewayDetecting
		}

	case NotificationSessionStarted:
		if s.gatewayState == GatewayInitiating || s.gatewayState == GatewayDetecting {
			s.gatewayState = GatewayConnected
			s.sessionState = SessionConnected
			if n.SessionName != "" {
				s.sessionName = n.SessionName
				s.hasName = true
			}
		}

	case NotificationSessionEnded:
		switch s.gatewayState {
		case GatewayConnected:
			s.gatewayState = GatewayEnded
			s.endReason = EndReasonNormal
		case GatewayDetecting:
			s.gatewayState = GatewayEnded
			s.endReason = EndReasonCreationFailure
		case GatewayInitiating:
			s.gatewayState = GatewayEnded
			s.endReason = EndReasonInitFailure
		}
		s.sessionState = SessionEnded

	case NotificationError:
		if s.gatewayState == GatewayInitiating {
			s.gatewayState = GatewayEnded
			s.endReason = EndReasonInitFailure
			s.sessionState = SessionEnded
		}
		// Detecting/Connected: ignore (caller is expected to log n.Message).

	case NotificationSessionChanged:
		if n.SessionName != "" {
			s.sessionName = n.SessionName
			s.hasName = true
		}

	case NotificationWindowAdd:
		s.windows[n.WindowID] = &Window{ID: n.WindowID, Name: n.WindowName}

	case NotificationWindowClose:
		delete(s.windows, n.WindowID)

	case NotificationWindowRenamed:
		if w, ok := s.windows[n.WindowID]; ok {
			w.Name = n.WindowName
		}

	case NotificationLayoutChange:
		// Layout strings are consumed by the renderer/layout manager, not
		// tracked here beyond confirming the window exists.
		if _, ok := s.windows[n.WindowID]; !ok {
			s.windows[n.WindowID] = &Window{ID: n.WindowID}
		}

	case NotificationPaneFocusChanged:
		s.focusedPane = n.PaneID
		s.hasFocusedPane = true

	case NotificationOutput:
		// Raw pane output is routed to the owning pane's parser by the
		// caller; the gateway itself does not buffer it.
	}
}

// EndReasonValue returns why the gateway ended, if it has.
func (s *Session) EndReasonValue() EndReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endReason
}

// FocusedPane returns the last %pane-focus-changed target, if any.
func (s *Session) FocusedPane() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusedPane, s.hasFocusedPane
}

// Windows returns a snapshot of tracked windows.
func (s *Session) Windows() map[string]Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Window, len(s.windows))
	for id, w := range s.windows {
		out[id] = *w
	}
	return out
}
