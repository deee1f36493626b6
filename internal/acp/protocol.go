package acp

import "encoding/json"

// PermissionOption is one choice the agent offers for a pending tool call,
// e.g. "Allow once", "Allow always", "Reject".
type PermissionOption struct {
	OptionID string `json:"optionId"`
	Name     string `json:"name"`
	Kind     string `json:"kind,omitempty"`
}

// RequestPermissionParams is the payload of an inbound
// session/request_permission call.
type RequestPermissionParams struct {
	SessionID string            `json:"sessionId"`
	ToolCall  json.RawMessage   `json:"toolCall"`
	Options   []PermissionOption `json:"options"`
}

// PermissionOutcome is the body of a permission decision.
type PermissionOutcome struct {
	Outcome  string  `json:"outcome"`
	OptionID *string `json:"optionId,omitempty"`
}

// RequestPermissionResponse wraps the outcome for the RPC result.
type RequestPermissionResponse struct {
	Outcome PermissionOutcome `json:"outcome"`
}

// SafePaths names the directories auto-approved writes may target
// beyond the universal /tmp-style roots.
type SafePaths struct {
	ConfigDir  string
	ShadersDir string
}

// protocolVersion is the only ACP revision this client speaks.
const protocolVersion = 1

// InitializeParams negotiates the protocol version as the very first
// call on a freshly spawned agent connection.
type InitializeParams struct {
	ProtocolVersion    int                `json:"protocolVersion"`
	ClientCapabilities ClientCapabilities `json:"clientCapabilities"`
}

// ClientCapabilities advertises what the host side can do for the agent.
type ClientCapabilities struct {
	FS FSCapability `json:"fs"`
}

// FSCapability advertises filesystem access the agent may request
// through fs/read_text_file and fs/write_text_file calls.
type FSCapability struct {
	ReadTextFile  bool `json:"readTextFile"`
	WriteTextFile bool `json:"writeTextFile"`
}

// InitializeResult is the agent's response to InitializeParams.
type InitializeResult struct {
	ProtocolVersion int `json:"protocolVersion"`
}

// NewSessionParams creates a session rooted at Cwd, the only thing a
// coding agent needs to start reasoning about a project.
type NewSessionParams struct {
	Cwd        string   `json:"cwd"`
	MCPServers []string `json:"mcpServers,omitempty"`
}

// NewSessionResult carries the session id later calls key off of.
type NewSessionResult struct {
	SessionID string `json:"sessionId"`
}

// ContentBlock is one piece of a prompt turn. Only plain text is sent;
// image/resource blocks are part of the protocol but no caller here
// produces them yet.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// PromptParams sends one user turn to an already-created session.
type PromptParams struct {
	SessionID string         `json:"sessionId"`
	Prompt    []ContentBlock `json:"prompt"`
}

// PromptResult reports why the agent stopped generating: "end_turn",
// "max_tokens", "refusal", or "cancelled".
type PromptResult struct {
	StopReason string `json:"stopReason"`
}

// TextContentBlock builds the single-block prompt shape NewSession's
// agents expect for a plain chat message.
func TextContentBlock(text string) []ContentBlock {
	return []ContentBlock{{Type: "text", Text: text}}
}
