package agent

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// platformKey returns the run_command table key for the current OS.
func platformKey() string {
	switch runtime.GOOS {
	case "darwin":
		return "macos"
	case "windows":
		return "windows"
	default:
		return "linux"
	}
}

// RunCommandForPlatform resolves the command to launch this agent's
// connector, preferring the current platform's key and falling back to
// the wildcard "*" entry.
func (c *Config) RunCommandForPlatform() (string, bool) {
	if cmd, ok := c.RunCommand[platformKey()]; ok {
		return cmd, true
	}
	if cmd, ok := c.RunCommand["*"]; ok {
		return cmd, true
	}
	return "", false
}

// DetectConnector checks whether this agent's run-command binary is
// reachable on PATH and records the result in ConnectorInstalled.
func (c *Config) DetectConnector() {
	cmd, ok := c.RunCommandForPlatform()
	if !ok {
		c.ConnectorInstalled = false
		return
	}
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		c.ConnectorInstalled = false
		return
	}
	c.ConnectorInstalled = BinaryInPath(fields[0])
}

// BinaryInPath reports whether binary resolves to an existing file,
// either directly (if absolute) or by searching $PATH.
func BinaryInPath(binary string) bool {
	_, ok := ResolveBinaryInPath(binary)
	return ok
}

// ResolveBinaryInPath searches the process's PATH for binary, returning
// its absolute location.
func ResolveBinaryInPath(binary string) (string, bool) {
	return resolveBinaryInPathVar(binary, os.Getenv("PATH"))
}

// ResolveBinaryInPathVar searches an arbitrary PATH-style string for
// binary, for callers that captured a shell's PATH separately (see
// ResolveShellPath) rather than using the process's own environment.
func ResolveBinaryInPathVar(binary, pathVar string) (string, bool) {
	return resolveBinaryInPathVar(binary, pathVar)
}

func resolveBinaryInPathVar(binary, pathVar string) (string, bool) {
	if binary == "" {
		return "", false
	}
	if filepath.IsAbs(binary) {
		if info, err := os.Stat(binary); err == nil && !info.IsDir() {
			return binary, true
		}
		return "", false
	}
	for _, dir := range filepath.SplitList(pathVar) {
		candidate := filepath.Join(dir, binary)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// ResolveShellPath runs the user's login+interactive shell just long
// enough to print $PATH, then returns it.
//
// App-bundle launches (Finder, Dock, Spotlight, systemd user units)
// start with a minimal environment. Shell profile files often guard
// PATH-extending lines behind an interactive-only check
// (`case $- in *i*) ... esac`), so a plain non-interactive login shell
// (`-l`) alone will not source them. Passing both `-l` and `-i` forces
// profile files to run; stdio is piped so no tty means readline never
// emits control sequences into the captured output.
func ResolveShellPath() (string, bool) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell, "-lic", `printf "%s" "$PATH"`)
	cmd.Stdin = nil
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", false
	}
	return path, true
}
