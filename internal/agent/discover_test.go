package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgentTOML(t *testing.T) {
	cfg, err := parseConfig(`
identity = "claude.com"
name = "Claude Code"
short_name = "claude"
protocol = "acp"
type = "coding"

[run_command]
"*" = "claude-agent-acp"
macos = "claude-agent-acp"
`)
	require.NoError(t, err)
	assert.Equal(t, "claude.com", cfg.Identity)
	assert.Equal(t, "Claude Code", cfg.Name)
	assert.Equal(t, "claude", cfg.ShortName)
	assert.Equal(t, "acp", cfg.Protocol)
	assert.Equal(t, "coding", cfg.Type)
	assert.True(t, cfg.IsActive())
	_, ok := cfg.RunCommandForPlatform()
	assert.True(t, ok)
}

func TestInactiveAgent(t *testing.T) {
	cfg, err := parseConfig(`
identity = "test.agent"
name = "Test"
short_name = "test"
active = false

[run_command]
"*" = "test-agent"
`)
	require.NoError(t, err)
	assert.False(t, cfg.IsActive())
}

func TestDefaultProtocolAndType(t *testing.T) {
	cfg, err := parseConfig(`
identity = "minimal.agent"
name = "Minimal"
short_name = "min"

[run_command]
"*" = "minimal-agent"
`)
	require.NoError(t, err)
	assert.Equal(t, "acp", cfg.Protocol)
	assert.Equal(t, "coding", cfg.Type)
}

func TestPlatformFallbackToWildcard(t *testing.T) {
	cfg, err := parseConfig(`
identity = "wildcard.agent"
name = "Wildcard"
short_name = "wc"

[run_command]
"*" = "wildcard-cmd"
`)
	require.NoError(t, err)
	cmd, ok := cfg.RunCommandForPlatform()
	require.True(t, ok)
	assert.Equal(t, "wildcard-cmd", cmd)
}

func TestAllEmbeddedAgentsParse(t *testing.T) {
	for i, raw := range embeddedAgents {
		cfg, err := parseConfig(raw)
		require.NoErrorf(t, err, "embedded agent %d failed to parse", i)
		assert.NotEmptyf(t, cfg.Identity, "agent %d has empty identity", i)
		assert.NotEmptyf(t, cfg.Name, "agent %d has empty name", i)
		assert.NotEmptyf(t, cfg.ShortName, "agent %d has empty short_name", i)
		_, ok := cfg.RunCommandForPlatform()
		assert.Truef(t, ok, "agent %d (%s) has no run command for this platform", i, cfg.Identity)
	}
}

func TestEmbeddedAgentsIncludeKnownIdentities(t *testing.T) {
	var identities []string
	for _, raw := range embeddedAgents {
		cfg, err := parseConfig(raw)
		require.NoError(t, err)
		identities = append(identities, cfg.Identity)
	}
	assert.Contains(t, identities, "claude.com")
	assert.Contains(t, identities, "openai.com")
	assert.Contains(t, identities, "geminicli.com")
}

func TestDiscoverNonexistentDir(t *testing.T) {
	agents := Discover(filepath.Join(os.TempDir(), "par-term-test-nonexistent-agents-dir"))
	for _, a := range agents {
		assert.True(t, a.IsActive())
	}
}

func TestDiscoverFromTempDir(t *testing.T) {
	tmpDir := t.TempDir()
	agentsDir := filepath.Join(tmpDir, "agents")
	require.NoError(t, os.MkdirAll(agentsDir, 0o755))

	tomlContent := `
identity = "test.disco"
name = "Discovery Test"
short_name = "disco"

[run_command]
"*" = "disco-agent"
`
	require.NoError(t, os.WriteFile(filepath.Join(agentsDir, "test.disco.toml"), []byte(tomlContent), 0o644))

	agents := Discover(tmpDir)
	var disco *Config
	for i := range agents {
		if agents[i].Identity == "test.disco" {
			disco = &agents[i]
		}
	}
	require.NotNil(t, disco, "expected test.disco agent to be discovered")
	assert.Equal(t, "Discovery Test", disco.Name)
}

func TestDiscoverFiltersInactive(t *testing.T) {
	tmpDir := t.TempDir()
	agentsDir := filepath.Join(tmpDir, "agents")
	require.NoError(t, os.MkdirAll(agentsDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(agentsDir, "active.toml"), []byte(`
identity = "active.agent"
name = "Active"
short_name = "act"

[run_command]
"*" = "active-cmd"
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(agentsDir, "inactive.toml"), []byte(`
identity = "inactive.agent"
name = "Inactive"
short_name = "inact"
active = false

[run_command]
"*" = "inactive-cmd"
`), 0o644))

	agents := Discover(tmpDir)
	identities := make(map[string]bool)
	for _, a := range agents {
		identities[a.Identity] = true
	}
	assert.True(t, identities["active.agent"])
	assert.False(t, identities["inactive.agent"])
}

func TestDiscoverUserOverridesEmbeddedByIdentity(t *testing.T) {
	tmpDir := t.TempDir()
	agentsDir := filepath.Join(tmpDir, "agents")
	require.NoError(t, os.MkdirAll(agentsDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(agentsDir, "claude.toml"), []byte(`
identity = "claude.com"
name = "Claude Code (custom build)"
short_name = "claude"

[run_command]
"*" = "my-custom-claude-acp"
`), 0o644))

	agents := Discover(tmpDir)
	count := 0
	var found *Config
	for i := range agents {
		if agents[i].Identity == "claude.com" {
			count++
			found = &agents[i]
		}
	}
	assert.Equal(t, 1, count, "claude.com should appear exactly once after override")
	require.NotNil(t, found)
	assert.Equal(t, "Claude Code (custom build)", found.Name)
}

func TestBinaryInPathFindsCommonBinary(t *testing.T) {
	candidates := []string{"ls", "cmd.exe"}
	found := false
	for _, c := range candidates {
		if BinaryInPath(c) {
			found = true
			break
		}
	}
	assert.True(t, found, "expected at least one common binary to resolve on PATH")
}

func TestBinaryInPathNotFound(t *testing.T) {
	assert.False(t, BinaryInPath("nonexistent-binary-12345"))
}

func TestBinaryInPathEmpty(t *testing.T) {
	assert.False(t, BinaryInPath(""))
}

func TestDetectConnectorExtractsFirstToken(t *testing.T) {
	cfg, err := parseConfig(`
identity = "test.agent"
name = "Test"
short_name = "test"

[run_command]
"*" = "ls --some-flag"
`)
	require.NoError(t, err)
	cfg.DetectConnector()
	if BinaryInPath("ls") {
		assert.True(t, cfg.ConnectorInstalled)
	}
}

func TestDetectConnectorForUnknownBinary(t *testing.T) {
	cfg, err := parseConfig(`
identity = "test.agent"
name = "Test"
short_name = "test"

[run_command]
"*" = "nonexistent-binary-12345"
`)
	require.NoError(t, err)
	cfg.DetectConnector()
	assert.False(t, cfg.ConnectorInstalled)
}

func TestResolveBinaryInPathVarAbsolute(t *testing.T) {
	tmpDir := t.TempDir()
	binPath := filepath.Join(tmpDir, "mytool")
	require.NoError(t, os.WriteFile(binPath, []byte("#!/bin/sh\n"), 0o755))

	resolved, ok := resolveBinaryInPathVar(binPath, "")
	require.True(t, ok)
	assert.Equal(t, binPath, resolved)
}

func TestResolveBinaryInPathVarSearchesEntries(t *testing.T) {
	tmpDir := t.TempDir()
	binPath := filepath.Join(tmpDir, "mytool")
	require.NoError(t, os.WriteFile(binPath, []byte("#!/bin/sh\n"), 0o755))

	resolved, ok := resolveBinaryInPathVar("mytool", tmpDir)
	require.True(t, ok)
	assert.Equal(t, binPath, resolved)
}
