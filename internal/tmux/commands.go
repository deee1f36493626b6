package tmux

import "strings"

// shellSingleQuote wraps s in single quotes, escaping embedded single
// quotes as '\'' — the POSIX-shell-safe quoting rule tmux's own command
// line parsing expects for session names containing spaces or quotes.
//
// This always quotes, unlike github.com/kballard/go-shellquote's Join
// (used in agent_launch.go to parse a run_command string, not to
// produce one), which only quotes arguments that actually need it. The
// control-mode commands below are hand-formatted strings, not argv
// slices passed through exec.Command, so always quoting keeps the
// tmux-side parse unambiguous regardless of what the session name or
// pasted text contains.
func shellSingleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// NewCommand returns the bytes to write to the PTY to start a fresh
// control-mode session, optionally named.
func NewCommand(name string) string {
	if name == "" {
		return "tmux -CC new-session\n"
	}
	return "tmux -CC new-session -s " + shellSingleQuote(name) + "\n"
}

// AttachCommand returns the bytes to attach control mode to an existing
// named session.
func AttachCommand(name string) string {
	return "tmux -CC attach -t " + shellSingleQuote(name) + "\n"
}

// CreateOrAttachCommand returns the bytes to attach to name, creating it
// first if it does not already exist ("new-session -A").
func CreateOrAttachCommand(name string) string {
	return "tmux -CC new-session -A -s " + shellSingleQuote(name) + "\n"
}

// FormatSendKeys formats a send-keys command addressing paneID with the
// already-escaped key string produced by EscapeKeysForTmux.
func FormatSendKeys(paneID, escaped string) string {
	return "send-keys -t %" + paneID + " " + escaped + "\n"
}

// FormatSendLiteral formats a send-keys -l (literal paste) command.
func FormatSendLiteral(paneID, escaped string) string {
	return "send-keys -t %" + paneID + " -l " + shellSingleQuote(escaped) + "\n"
}
