package acp

import (
	"encoding/json"
	"log"
)

// Event is delivered to the UI when the arbiter cannot decide a
// permission request on its own, or when it auto-approved one the user
// should still be told about.
type Event struct {
	Kind         EventKind
	RequestID    json.RawMessage
	Description  string
	ToolCall     json.RawMessage
	Options      []PermissionOption
}

// EventKind distinguishes the shapes of Event.
type EventKind int

const (
	EventAutoApproved EventKind = iota
	EventPermissionRequest
	EventSessionUpdate
)

// SessionUpdateParams is the payload of an inbound session/update
// notification: one incremental chunk of agent output.
type SessionUpdateParams struct {
	SessionID string          `json:"sessionId"`
	Update    json.RawMessage `json:"update"`
}

// sessionUpdateText is the shape of the subset of update kinds this
// host surfaces as plain text: assistant message chunks and agent
// "thought" chunks, both carrying a single text content block.
type sessionUpdateText struct {
	SessionUpdate string `json:"sessionUpdate"`
	Content       struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Host wires a Client's inbound session/request_permission calls
// through an Arbiter, auto-responding when possible and forwarding to
// events when a human decision is required.
type Host struct {
	Client  *Client
	Arbiter *Arbiter
	Events  chan<- Event
}

// HandleRequest is the Client's onRequest callback. It recognizes
// session/update (handled without a reply) and
// session/request_permission; any other inbound method that carries an
// id is answered with a method-not-found error so the agent does not
// hang waiting for a reply it will never need.
func (h *Host) HandleRequest(method string, id json.RawMessage, params json.RawMessage) {
	if method == "session/update" {
		h.handleSessionUpdate(params)
		return
	}

	if method != "session/request_permission" {
		if id != nil {
			_ = h.Client.Respond(id, nil, &RPCError{Code: ErrCodeMethodNotFound, Message: "Method not found", Data: method})
		}
		return
	}

	var parsed RequestPermissionParams
	if err := json.Unmarshal(params, &parsed); err != nil {
		log.Printf("acp: failed to parse permission params: %v", err)
		_ = h.Client.Respond(id, nil, &RPCError{Code: ErrCodeInvalidParams, Message: "Invalid params"})
		return
	}

	arb := h.Arbiter.Evaluate(parsed)

	switch arb.Decision {
	case DecisionAutoBlock, DecisionAutoApprove:
		outcome := RequestPermissionResponse{Outcome: PermissionOutcome{Outcome: "selected", OptionID: arb.OptionID}}
		if err := h.Client.Respond(id, outcome, nil); err != nil {
			log.Printf("acp: failed to send permission response: %v", err)
		}
		if arb.Decision == DecisionAutoApprove && h.Events != nil {
			h.Events <- Event{Kind: EventAutoApproved, Description: arb.ToolName, ToolCall: arb.ToolCall}
		}
	case DecisionEscalate:
		if h.Events != nil {
			h.Events <- Event{Kind: EventPermissionRequest, RequestID: id, ToolCall: arb.ToolCall, Options: arb.Options}
		}
	}
}

// handleSessionUpdate parses a session/update notification and, for the
// chunk kinds that carry displayable text, forwards it as an Event. Other
// update kinds (plan updates, tool-call progress) are logged but not
// surfaced; the UI only renders a running transcript today.
func (h *Host) handleSessionUpdate(params json.RawMessage) {
	var parsed SessionUpdateParams
	if err := json.Unmarshal(params, &parsed); err != nil {
		log.Printf("acp: failed to parse session update: %v", err)
		return
	}

	var chunk sessionUpdateText
	if err := json.Unmarshal(parsed.Update, &chunk); err != nil {
		return
	}

	switch chunk.SessionUpdate {
	case "agent_message_chunk", "agent_thought_chunk":
		if chunk.Content.Text != "" && h.Events != nil {
			h.Events <- Event{Kind: EventSessionUpdate, Description: chunk.Content.Text}
		}
	default:
		log.Printf("acp: session update kind=%s (not surfaced)", chunk.SessionUpdate)
	}
}
