package tmux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionInitialState(t *testing.T) {
	s := NewSession()
	assert.Equal(t, SessionDisconnected, s.SessionStateValue())
	assert.Equal(t, GatewayInactive, s.GatewayStateValue())
	assert.False(t, s.IsGatewayActive())
	name, ok := s.SessionName()
	assert.Empty(t, name)
	assert.False(t, ok)
}

// TestAttachSequence walks the happy path from spec scenario 5: a
// new-session command is written, tmux replies %begin (control mode
// started), then the session attach itself is confirmed by a
// synthesized SessionStarted notification naming the session.
func TestAttachSequence(t *testing.T) {
	s := NewSession()
	s.BeginInitiating()
	assert.Equal(t, GatewayInitiating, s.GatewayStateValue())
	assert.True(t, s.IsGatewayActive())

	s.ProcessNotification(Notification{Kind: NotificationControlModeStarted})
	assert.Equal(t, GatewayDetecting, s.GatewayStateValue())
	assert.True(t, s.IsGatewayActive())

	s.ProcessNotification(Notification{Kind: NotificationSessionStarted, SessionName: "dev"})
	assert.Equal(t, GatewayConnected, s.GatewayStateValue())
	assert.Equal(t, SessionConnected, s.SessionStateValue())
	assert.True(t, s.IsGatewayActive())

	name, ok := s.SessionName()
	assert.True(t, ok)
	assert.Equal(t, "dev", name)
}

// TestSessionStartedDirectlyFromInitiating covers the case where tmux
// attaches to an already-running session fast enough that SessionStarted
// arrives before a separate ControlModeStarted is observed.
func TestSessionStartedDirectlyFromInitiating(t *testing.T) {
	s := NewSession()
	s.BeginInitiating()
	s.ProcessNotification(Notification{Kind: NotificationSessionStarted, SessionName: "work"})
	assert.Equal(t, GatewayConnected, s.GatewayStateValue())
	name, ok := s.SessionName()
	assert.True(t, ok)
	assert.Equal(t, "work", name)
}

func TestSessionEndedFromConnectedIsNormal(t *testing.T) {
	s := NewSession()
	s.BeginInitiating()
	s.ProcessNotification(Notification{Kind: NotificationSessionStarted, SessionName: "dev"})
	s.ProcessNotification(Notification{Kind: NotificationSessionEnded})

	assert.Equal(t, GatewayEnded, s.GatewayStateValue())
	assert.Equal(t, SessionEnded, s.SessionStateValue())
	assert.Equal(t, EndReasonNormal, s.EndReasonValue())
	assert.False(t, s.IsGatewayActive())
}

func TestSessionEndedFromDetectingIsCreationFailure(t *testing.T) {
	s := NewSession()
	s.BeginInitiating()
	s.ProcessNotification(Notification{Kind: NotificationControlModeStarted})
	s.ProcessNotification(Notification{Kind: NotificationSessionEnded})

	assert.Equal(t, GatewayEnded, s.GatewayStateValue())
	assert.Equal(t, EndReasonCreationFailure, s.EndReasonValue())
}

func TestSessionEndedFromInitiatingIsInitFailure(t *testing.T) {
	s := NewSession()
	s.BeginInitiating()
	s.ProcessNotification(Notification{Kind: NotificationSessionEnded})

	assert.Equal(t, GatewayEnded, s.GatewayStateValue())
	assert.Equal(t, EndReasonInitFailure, s.EndReasonValue())
}

func TestErrorDuringInitiatingIsFatal(t *testing.T) {
	s := NewSession()
	s.BeginInitiating()
	s.ProcessNotification(Notification{Kind: NotificationError, Message: "boom"})

	assert.Equal(t, GatewayEnded, s.GatewayStateValue())
	assert.Equal(t, EndReasonInitFailure, s.EndReasonValue())
	assert.Equal(t, SessionEnded, s.SessionStateValue())
}

// TestErrorAfterConnectedIsIgnored asserts an Error notification once
// connected does not tear the gateway down; the caller is expected to
// log it and keep routing keystrokes through tmux.
func TestErrorAfterConnectedIsIgnored(t *testing.T) {
	s := NewSession()
	s.BeginInitiating()
	s.ProcessNotification(Notification{Kind: NotificationSessionStarted, SessionName: "dev"})
	s.ProcessNotification(Notification{Kind: NotificationError, Message: "transient"})

	assert.Equal(t, GatewayConnected, s.GatewayStateValue())
	assert.Equal(t, EndReasonNone, s.EndReasonValue())
	assert.True(t, s.IsGatewayActive())
}

func TestIsGatewayActiveAcrossAllStates(t *testing.T) {
	cases := []struct {
		state  GatewayState
		active bool
	}{
		{GatewayInactive, false},
		{GatewayInitiating, true},
		{GatewayDetecting, true},
		{GatewayConnected, true},
		{GatewayEnded, false},
	}
	for _, c := range cases {
		s := NewSession()
		s.gatewayState = c.state
		assert.Equal(t, c.active, s.IsGatewayActive(), c.state.String())
	}
}

func TestWindowBookkeeping(t *testing.T) {
	s := NewSession()
	s.ProcessNotification(Notification{Kind: NotificationWindowAdd, WindowID: "1", WindowName: "shell"})
	s.ProcessNotification(Notification{Kind: NotificationWindowAdd, WindowID: "2", WindowName: "logs"})
	s.ProcessNotification(Notification{Kind: NotificationWindowRenamed, WindowID: "2", WindowName: "tail"})

	windows := s.Windows()
	assert.Len(t, windows, 2)
	assert.Equal(t, "shell", windows["1"].Name)
	assert.Equal(t, "tail", windows["2"].Name)

	s.ProcessNotification(Notification{Kind: NotificationWindowClose, WindowID: "1"})
	windows = s.Windows()
	assert.Len(t, windows, 1)
	_, ok := windows["1"]
	assert.False(t, ok)
}

func TestPaneFocusChanged(t *testing.T) {
	s := NewSession()
	_, ok := s.FocusedPane()
	assert.False(t, ok)

	s.ProcessNotification(Notification{Kind: NotificationPaneFocusChanged, PaneID: "3"})
	pane, ok := s.FocusedPane()
	assert.True(t, ok)
	assert.Equal(t, "3", pane)
}

func TestSessionChangedUpdatesName(t *testing.T) {
	s := NewSession()
	s.ProcessNotification(Notification{Kind: NotificationSessionChanged, SessionName: "other"})
	name, ok := s.SessionName()
	assert.True(t, ok)
	assert.Equal(t, "other", name)
}

func TestGatewayStateString(t *testing.T) {
	assert.Equal(t, "Inactive", GatewayInactive.String())
	assert.Equal(t, "Initiating", GatewayInitiating.String())
	assert.Equal(t, "Detecting", GatewayDetecting.String())
	assert.Equal(t, "Connected", GatewayConnected.String())
	assert.Equal(t, "Ended", GatewayEnded.String())
}
