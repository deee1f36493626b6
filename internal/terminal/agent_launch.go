package terminal

import (
	"fmt"
	"log"
	"os"
	"os/exec"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/ellery/par-term/internal/acp"
	"github.com/ellery/par-term/internal/agent"
)

// AgentAttempt is one LaunchAgent call, spawning an ACP connector
// process and performing the initialize/session-new handshake. Unlike
// Panel's regular PTY child (a program whose terminal output the VT
// emulator parses), the agent's stdio speaks newline-delimited JSON-RPC
// and never touches VT at all; its output reaches the UI only through
// acp.Event values.
type AgentAttempt struct {
	cmd     *exec.Cmd
	client  *acp.Client
	session *acp.Session
	events  chan acp.Event
}

// LaunchAgent resolves cfg's connector binary, spawns it, completes the
// ACP handshake, and starts streaming its session/update and
// session/request_permission traffic to onEvent. onEvent is called from
// a background goroutine and must not block.
//
// cwd becomes the session's working directory, normally the directory
// the panel's own shell is running in. safe scopes which filesystem
// writes the permission arbiter auto-approves without prompting.
func (p *Panel) LaunchAgent(cfg agent.Config, cwd string, safe acp.SafePaths, onEvent func(acp.Event)) error {
	p.mu.Lock()
	if p.AgentAttempt != nil {
		p.mu.Unlock()
		return fmt.Errorf("agent: %s is already running in this pane", p.AgentName)
	}
	p.mu.Unlock()

	attempt, err := startAgentAttempt(cfg, cwd, safe)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.AgentAttempt = attempt
	p.AgentName = cfg.Name
	p.mu.Unlock()

	go func() {
		for ev := range attempt.events {
			if onEvent != nil {
				onEvent(ev)
			}
		}
	}()

	return nil
}

// CloseAgent terminates the running agent connector, if any.
func (p *Panel) CloseAgent() {
	p.mu.Lock()
	attempt := p.AgentAttempt
	p.AgentAttempt = nil
	p.AgentName = ""
	p.mu.Unlock()

	if attempt != nil {
		attempt.close()
	}
}

func startAgentAttempt(cfg agent.Config, cwd string, safe acp.SafePaths) (*AgentAttempt, error) {
	runCmd, ok := cfg.RunCommandForPlatform()
	if !ok {
		return nil, fmt.Errorf("agent: %s has no run_command for this platform", cfg.Identity)
	}

	// run_command comes from the agent's TOML descriptor and may quote
	// an argument containing spaces (a path under "Program Files", a
	// --flag="multi word value"); strings.Fields would split those
	// apart, so this uses the same shell-word parser a real shell would.
	fields, err := shellquote.Split(runCmd)
	if err != nil {
		return nil, fmt.Errorf("agent: %s run_command is not valid shell syntax: %w", cfg.Identity, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("agent: %s run_command is empty", cfg.Identity)
	}

	bin := resolveAgentBinary(fields[0])
	cmd := exec.Command(bin, fields[1:]...)
	cmd.Env = os.Environ()
	for k, v := range cfg.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Dir = cwd
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("agent: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("agent: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("agent: failed to start %s: %w", bin, err)
	}

	events := make(chan acp.Event, 16)
	arbiter := &acp.Arbiter{SafePaths: safe}
	host := &acp.Host{Arbiter: arbiter, Events: events}
	client := acp.NewClient(stdin, stdout, host.HandleRequest)
	host.Client = client

	session := &acp.Session{Client: client}
	if err := session.Initialize(); err != nil {
		_ = cmd.Process.Kill()
		return nil, err
	}
	if err := session.NewSession(cwd); err != nil {
		_ = cmd.Process.Kill()
		return nil, err
	}

	log.Printf("PAR-TERM: launched agent %s (session %s)", cfg.Identity, session.SessionID)

	return &AgentAttempt{cmd: cmd, client: client, session: session, events: events}, nil
}

// Prompt sends one chat turn to the running agent.
func (a *AgentAttempt) Prompt(text string) (acp.PromptResult, error) {
	return a.session.Prompt(text)
}

func (a *AgentAttempt) close() {
	if a.cmd != nil && a.cmd.Process != nil {
		_ = a.cmd.Process.Kill()
	}
}

// resolveAgentBinary searches PATH for bin, falling back to a captured
// login-shell PATH when the process's own PATH (minimal for app-bundle
// or systemd launches) does not have it.
func resolveAgentBinary(bin string) string {
	if resolved, ok := agent.ResolveBinaryInPath(bin); ok {
		return resolved
	}
	if path, ok := agent.ResolveShellPath(); ok {
		if resolved, ok := agent.ResolveBinaryInPathVar(bin, path); ok {
			return resolved
		}
	}
	return bin
}
