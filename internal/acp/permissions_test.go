package acp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeParams(t *testing.T, toolCall map[string]interface{}, options []PermissionOption) RequestPermissionParams {
	t.Helper()
	raw, err := json.Marshal(toolCall)
	require.NoError(t, err)
	return RequestPermissionParams{SessionID: "s1", ToolCall: raw, Options: options}
}

func TestArbiterBlocksSkillTool(t *testing.T) {
	arb := &Arbiter{SafePaths: SafePaths{}}
	params := makeParams(t, map[string]interface{}{"tool": "Skill", "title": "Skill run-thing"}, []PermissionOption{
		{OptionID: "allow", Name: "Allow", Kind: "allow"},
		{OptionID: "deny", Name: "Deny", Kind: "deny"},
	})
	result := arb.Evaluate(params)
	assert.Equal(t, DecisionAutoBlock, result.Decision)
	require.NotNil(t, result.OptionID)
	assert.Equal(t, "deny", *result.OptionID)
}

func TestArbiterAutoApprovesReadOnlyTool(t *testing.T) {
	arb := &Arbiter{SafePaths: SafePaths{}}
	params := makeParams(t, map[string]interface{}{"tool": "Read", "title": "Read /tmp/x"}, []PermissionOption{
		{OptionID: "allow-once", Name: "Allow once", Kind: "allowOnce"},
		{OptionID: "deny", Name: "Deny", Kind: "deny"},
	})
	result := arb.Evaluate(params)
	assert.Equal(t, DecisionAutoApprove, result.Decision)
	require.NotNil(t, result.OptionID)
	assert.Equal(t, "allow-once", *result.OptionID)
}

func TestArbiterEscalatesWriteOutsideSafeRoot(t *testing.T) {
	arb := &Arbiter{SafePaths: SafePaths{ConfigDir: "/nonexistent/config", ShadersDir: "/nonexistent/shaders"}}
	params := makeParams(t, map[string]interface{}{
		"tool":     "Write",
		"rawInput": map[string]interface{}{"file_path": "/Users/someone/.bashrc"},
	}, []PermissionOption{
		{OptionID: "allow", Name: "Allow", Kind: "allow"},
		{OptionID: "deny", Name: "Deny", Kind: "deny"},
	})
	result := arb.Evaluate(params)
	assert.Equal(t, DecisionEscalate, result.Decision)
}

func TestArbiterAutoApprovesWriteToTmp(t *testing.T) {
	arb := &Arbiter{SafePaths: SafePaths{ConfigDir: "/nonexistent/config", ShadersDir: "/nonexistent/shaders"}}
	params := makeParams(t, map[string]interface{}{
		"tool":     "Write",
		"rawInput": map[string]interface{}{"file_path": "/tmp/scratch.txt"},
	}, []PermissionOption{
		{OptionID: "allow", Name: "Allow", Kind: "allow"},
		{OptionID: "deny", Name: "Deny", Kind: "deny"},
	})
	result := arb.Evaluate(params)
	assert.Equal(t, DecisionAutoApprove, result.Decision)
}

func TestArbiterAutoApproveFlagCoversEverythingExceptScreenshot(t *testing.T) {
	arb := &Arbiter{SafePaths: SafePaths{}, AutoApprove: func() bool { return true }}

	write := makeParams(t, map[string]interface{}{
		"tool":     "Write",
		"rawInput": map[string]interface{}{"file_path": "/Users/someone/anything"},
	}, []PermissionOption{{OptionID: "allow", Name: "Allow", Kind: "allow"}})
	assert.Equal(t, DecisionAutoApprove, arb.Evaluate(write).Decision)

	screenshot := makeParams(t, map[string]interface{}{"tool": "terminal_screenshot"}, []PermissionOption{
		{OptionID: "allow", Name: "Allow", Kind: "allow"},
	})
	assert.Equal(t, DecisionEscalate, arb.Evaluate(screenshot).Decision)
}

func TestArbiterFallsBackToFirstOptionWhenNoneMatch(t *testing.T) {
	arb := &Arbiter{SafePaths: SafePaths{}}
	params := makeParams(t, map[string]interface{}{"tool": "Skill"}, []PermissionOption{
		{OptionID: "only", Name: "Something"},
	})
	result := arb.Evaluate(params)
	require.NotNil(t, result.OptionID)
	assert.Equal(t, "only", *result.OptionID)
}

func TestArbiterNoOptionsYieldsNilOptionID(t *testing.T) {
	arb := &Arbiter{SafePaths: SafePaths{}}
	params := makeParams(t, map[string]interface{}{"tool": "Skill"}, nil)
	result := arb.Evaluate(params)
	assert.Nil(t, result.OptionID)
}

func TestExtractToolNameFromTitle(t *testing.T) {
	tc, err := json.Marshal(map[string]interface{}{"title": "Write /path/to/file"})
	require.NoError(t, err)
	assert.Equal(t, "Write", extractToolName(tc))
}
