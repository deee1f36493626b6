package acp

import (
	"encoding/json"
	"log"
	"strings"
)

// Decision is what the arbiter decided to do with a pending permission
// request: auto-approve it, auto-block it, or hand it to the UI.
type Decision int

const (
	DecisionEscalate Decision = iota
	DecisionAutoApprove
	DecisionAutoBlock
)

// Arbitration is the result of evaluating a permission request.
type Arbitration struct {
	Decision  Decision
	ToolName  string
	OptionID  *string
	ToolCall  json.RawMessage
	Options   []PermissionOption
}

var readOnlyTools = map[string]bool{
	"read":             true,
	"read_file":        true,
	"readfile":         true,
	"readtextfile":     true,
	"glob":             true,
	"grep":             true,
	"find":             true,
	"list_directory":   true,
	"listdirectory":    true,
	"toolsearch":       true,
	"tool_search":      true,
	"notebookedit":     true,
	"notebook_edit":    true,
	"config":           true,
	"config_update":    true,
	"configupdate":     true,
}

var writeTools = map[string]bool{
	"write":         true,
	"write_file":    true,
	"writefile":     true,
	"writetextfile": true,
	"edit":          true,
}

// Arbiter decides how to dispose of session/request_permission calls:
// auto-block the Skill tool, auto-approve read-only tools and writes to
// safe directories, and escalate everything else to the UI.
type Arbiter struct {
	SafePaths   SafePaths
	AutoApprove func() bool
}

// Evaluate implements the full decision table for a single permission
// request. The caller is responsible for sending the corresponding
// response or escalation once this returns.
func (a *Arbiter) Evaluate(params RequestPermissionParams) Arbitration {
	toolName := extractToolName(params.ToolCall)
	lower := strings.ToLower(toolName)

	log.Printf("acp: permission request tool=%s", toolName)

	// The Skill tool can produce malformed raw function-tag output with
	// non-Claude backends. Block it at the host layer so the
	// conversation continues with normal chat text.
	if lower == "skill" {
		option := pickOption(params.Options, isDenyOption)
		return Arbitration{Decision: DecisionAutoBlock, ToolName: toolName, OptionID: option, ToolCall: params.ToolCall, Options: params.Options}
	}

	isScreenshotTool := strings.Contains(lower, "par-term-config__terminal_screenshot") || lower == "terminal_screenshot"
	isSafeFsTool := false
	if readOnlyTools[lower] || (strings.Contains(lower, "par-term-config") && !isScreenshotTool) {
		isSafeFsTool = true
	} else if writeTools[lower] {
		isSafeFsTool = IsSafeWritePath(params.ToolCall, a.SafePaths)
	}

	autoApprove := a.AutoApprove != nil && a.AutoApprove()

	if (autoApprove && !isScreenshotTool) || isSafeFsTool {
		option := pickOption(params.Options, isAllowOption)
		return Arbitration{Decision: DecisionAutoApprove, ToolName: toolName, OptionID: option, ToolCall: params.ToolCall, Options: params.Options}
	}

	return Arbitration{Decision: DecisionEscalate, ToolName: toolName, ToolCall: params.ToolCall, Options: params.Options}
}

func isDenyOption(o PermissionOption) bool {
	switch o.Kind {
	case "deny", "reject", "cancel", "disallow":
		return true
	}
	name := strings.ToLower(o.Name)
	return strings.Contains(name, "deny") || strings.Contains(name, "reject") || strings.Contains(name, "cancel") || strings.Contains(name, "disallow")
}

func isAllowOption(o PermissionOption) bool {
	if o.Kind == "allow" || o.Kind == "allowOnce" {
		return true
	}
	return strings.Contains(strings.ToLower(o.Name), "allow")
}

func pickOption(options []PermissionOption, match func(PermissionOption) bool) *string {
	for _, o := range options {
		if match(o) {
			id := o.OptionID
			return &id
		}
	}
	if len(options) > 0 {
		id := options[0].OptionID
		return &id
	}
	return nil
}

// extractToolName pulls the tool's identifier out of the tool_call JSON:
// a dedicated tool/name/toolName field, or the first word of "title"
// ("Write /path/to/file" -> "Write"), matching the shapes different
// agent backends emit.
func extractToolName(toolCall json.RawMessage) string {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(toolCall, &generic); err != nil {
		return ""
	}
	for _, key := range []string{"tool", "name", "toolName"} {
		if raw, ok := generic[key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				return s
			}
		}
	}
	if raw, ok := generic["title"]; ok {
		var title string
		if json.Unmarshal(raw, &title) == nil {
			parts := strings.Fields(title)
			if len(parts) > 0 {
				return parts[0]
			}
		}
	}
	return ""
}
