package acp

import "fmt"

// Session is a convenience wrapper around Client for the three calls
// every agent launch makes in order: initialize, session/new, then one
// or more session/prompt turns.
type Session struct {
	Client    *Client
	SessionID string
}

// Initialize performs the protocol version handshake. It must be the
// first call made on a freshly spawned agent's Client.
func (s *Session) Initialize() error {
	var result InitializeResult
	params := InitializeParams{
		ProtocolVersion: protocolVersion,
		ClientCapabilities: ClientCapabilities{
			FS: FSCapability{ReadTextFile: true, WriteTextFile: true},
		},
	}
	if err := s.Client.Call("initialize", params, &result); err != nil {
		return fmt.Errorf("acp: initialize: %w", err)
	}
	if result.ProtocolVersion != protocolVersion {
		return fmt.Errorf("acp: agent speaks protocol version %d, want %d", result.ProtocolVersion, protocolVersion)
	}
	return nil
}

// NewSession opens a session rooted at cwd and records its id for
// subsequent Prompt calls.
func (s *Session) NewSession(cwd string) error {
	var result NewSessionResult
	params := NewSessionParams{Cwd: cwd}
	if err := s.Client.Call("session/new", params, &result); err != nil {
		return fmt.Errorf("acp: session/new: %w", err)
	}
	if result.SessionID == "" {
		return fmt.Errorf("acp: session/new returned an empty session id")
	}
	s.SessionID = result.SessionID
	return nil
}

// Prompt sends one chat turn and returns why the agent stopped
// generating. Streamed content arrives separately as
// session/update notifications, delivered to the Host's onRequest
// callback like any other inbound call.
func (s *Session) Prompt(text string) (PromptResult, error) {
	var result PromptResult
	params := PromptParams{SessionID: s.SessionID, Prompt: TextContentBlock(text)}
	if err := s.Client.Call("session/prompt", params, &result); err != nil {
		return PromptResult{}, fmt.Errorf("acp: session/prompt: %w", err)
	}
	return result, nil
}
