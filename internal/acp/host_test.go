package acp

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHost(t *testing.T, events chan Event) (*Host, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	client := &Client{writer: out, pending: make(map[int64]chan envelope)}
	host := &Host{
		Client:  client,
		Arbiter: &Arbiter{SafePaths: SafePaths{}},
		Events:  events,
	}
	return host, out
}

func TestHostRejectsUnknownMethod(t *testing.T) {
	host, out := newTestHost(t, nil)
	host.HandleRequest("fs/read_text_file", json.RawMessage("1"), json.RawMessage(`{}`))

	var env envelope
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeMethodNotFound, env.Error.Code)
}

func TestHostRespondsInvalidParams(t *testing.T) {
	host, out := newTestHost(t, nil)
	host.HandleRequest("session/request_permission", json.RawMessage("2"), json.RawMessage(`not json`))

	var env envelope
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeInvalidParams, env.Error.Code)
}

func TestHostAutoApprovesAndEmitsEvent(t *testing.T) {
	events := make(chan Event, 1)
	host, out := newTestHost(t, events)

	params := RequestPermissionParams{
		SessionID: "s1",
		ToolCall:  json.RawMessage(`{"tool":"Read","title":"Read /tmp/x"}`),
		Options: []PermissionOption{
			{OptionID: "allow", Name: "Allow", Kind: "allow"},
		},
	}
	raw, err := json.Marshal(params)
	require.NoError(t, err)

	host.HandleRequest("session/request_permission", json.RawMessage("3"), raw)

	var env envelope
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &env))
	assert.Nil(t, env.Error)

	select {
	case ev := <-events:
		assert.Equal(t, EventAutoApproved, ev.Kind)
	default:
		t.Fatal("expected an auto-approved event")
	}
}

func TestHostEscalatesAndEmitsEvent(t *testing.T) {
	events := make(chan Event, 1)
	host, out := newTestHost(t, events)

	params := RequestPermissionParams{
		SessionID: "s1",
		ToolCall:  json.RawMessage(`{"tool":"Write","rawInput":{"file_path":"/Users/someone/.bashrc"}}`),
		Options: []PermissionOption{
			{OptionID: "allow", Name: "Allow", Kind: "allow"},
			{OptionID: "deny", Name: "Deny", Kind: "deny"},
		},
	}
	raw, err := json.Marshal(params)
	require.NoError(t, err)

	host.HandleRequest("session/request_permission", json.RawMessage("4"), raw)

	// Escalation never answers the agent directly; the UI must resolve it.
	assert.Empty(t, out.Bytes())

	select {
	case ev := <-events:
		assert.Equal(t, EventPermissionRequest, ev.Kind)
		assert.Equal(t, json.RawMessage("4"), ev.RequestID)
	default:
		t.Fatal("expected a permission-request event")
	}
}
