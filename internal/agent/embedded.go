package agent

// embeddedAgents are the agent descriptors compiled into the binary so
// that at least one working agent is always available regardless of
// installation method or launch context (e.g. a macOS app bundle with
// no bundled agents/ directory yet).
var embeddedAgents = []string{
	`
identity = "claude.com"
name = "Claude Code"
short_name = "claude"
protocol = "acp"
type = "coding"
install_command = "npm install -g @zed-industries/claude-agent-acp"

[run_command]
"*" = "claude-agent-acp"
`,
	`
identity = "openai.com"
name = "Codex CLI"
short_name = "codex"
protocol = "acp"
type = "coding"
install_command = "npm install -g @zed-industries/codex-acp"

[run_command]
"*" = "npx @zed-industries/codex-acp"
`,
	`
identity = "geminicli.com"
name = "Gemini CLI"
short_name = "gemini"
protocol = "acp"
type = "coding"

[run_command]
"*" = "gemini --experimental-acp"
`,
	`
identity = "copilot.github.com"
name = "Copilot"
short_name = "copilot"
protocol = "acp"
type = "coding"

[run_command]
"*" = "copilot --acp"
`,
	`
identity = "ampcode.com"
name = "Amp (AmpCode)"
short_name = "amp"
protocol = "acp"
type = "coding"

[run_command]
"*" = "npx -y amp-acp"
`,
	`
identity = "augmentcode.com"
name = "Auggie (Augment Code)"
short_name = "auggie"
protocol = "acp"
type = "coding"

[run_command]
"*" = "auggie --acp"
`,
	`
identity = "docker.com"
name = "Docker cagent"
short_name = "cagent"
protocol = "acp"
type = "coding"

[run_command]
"*" = "cagent acp"
`,
	`
identity = "openhands.dev"
name = "OpenHands"
short_name = "openhands"
protocol = "acp"
type = "coding"

[run_command]
"*" = "openhands acp"
`,
}
