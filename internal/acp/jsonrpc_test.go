package acp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClientCallRoundTrip wires a Client against an io.Pipe pair
// standing in for a spawned agent's stdin/stdout: writes the Client
// makes are read back out as the "agent", and the agent's canned reply
// is fed back in as the Client's stdout.
func TestClientCallRoundTrip(t *testing.T) {
	hostToAgentR, hostToAgentW := io.Pipe()
	agentToHostR, agentToHostW := io.Pipe()

	client := NewClient(hostToAgentW, agentToHostR, func(method string, id, params json.RawMessage) {})

	go func() {
		scanner := bufio.NewScanner(hostToAgentR)
		scanner.Buffer(make([]byte, 64*1024), 1<<20)
		for scanner.Scan() {
			var env envelope
			if err := json.Unmarshal(scanner.Bytes(), &env); err != nil {
				continue
			}
			reply := envelope{JSONRPC: "2.0", ID: env.ID, Result: json.RawMessage(`{"ok":true}`)}
			data, _ := json.Marshal(reply)
			data = append(data, '\n')
			_, _ = agentToHostW.Write(data)
		}
	}()

	var out map[string]bool
	err := client.Call("session/new", map[string]string{"cwd": "/tmp"}, &out)
	require.NoError(t, err)
	assert.True(t, out["ok"])
}

func TestClientRespond(t *testing.T) {
	out := &bytes.Buffer{}
	client := &Client{writer: out, pending: make(map[int64]chan envelope)}
	err := client.Respond(json.RawMessage("7"), map[string]string{"outcome": "selected"}, nil)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &env))
	assert.Equal(t, json.RawMessage("7"), env.ID)
	assert.Nil(t, env.Error)
}

func TestClientRespondWithError(t *testing.T) {
	out := &bytes.Buffer{}
	client := &Client{writer: out, pending: make(map[int64]chan envelope)}
	err := client.Respond(json.RawMessage("7"), nil, &RPCError{Code: ErrCodeInvalidParams, Message: "Invalid params"})
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeInvalidParams, env.Error.Code)
}

func TestClientNotify(t *testing.T) {
	out := &bytes.Buffer{}
	client := &Client{writer: out, pending: make(map[int64]chan envelope)}
	err := client.Notify("session/update", map[string]string{"status": "thinking"})
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &env))
	assert.Equal(t, "session/update", env.Method)
	assert.Nil(t, env.ID)
}

func TestRPCErrorMessage(t *testing.T) {
	err := &RPCError{Code: -32602, Message: "Invalid params"}
	assert.Contains(t, err.Error(), "Invalid params")
	assert.Contains(t, err.Error(), "-32602")
}
