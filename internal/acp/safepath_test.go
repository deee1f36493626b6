package acp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSafePaths(t *testing.T) SafePaths {
	t.Helper()
	base := filepath.Join(os.TempDir(), fmt.Sprintf("par-term-acp-permissions-tests-%d", os.Getpid()))
	configDir := filepath.Join(base, "config")
	shadersDir := filepath.Join(base, "shaders")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.MkdirAll(shadersDir, 0o755))
	t.Cleanup(func() { os.RemoveAll(base) })
	return SafePaths{ConfigDir: configDir, ShadersDir: shadersDir}
}

func toolCallJSON(t *testing.T, v map[string]interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestSafeWritePathTmp(t *testing.T) {
	safe := makeSafePaths(t)
	tc := toolCallJSON(t, map[string]interface{}{
		"rawInput": map[string]interface{}{"file_path": "/tmp/test.glsl"},
		"title":    "Write /tmp/test.glsl",
	})
	assert.True(t, IsSafeWritePath(tc, safe))
}

func TestSafeWritePathShadersDir(t *testing.T) {
	safe := makeSafePaths(t)
	path := filepath.Join(safe.ShadersDir, "crt.glsl")
	tc := toolCallJSON(t, map[string]interface{}{
		"rawInput": map[string]interface{}{"file_path": path},
		"title":    "Write " + path,
	})
	assert.True(t, IsSafeWritePath(tc, safe))
}

func TestSafeWritePathConfigDir(t *testing.T) {
	safe := makeSafePaths(t)
	path := filepath.Join(safe.ConfigDir, ".config-update.json")
	tc := toolCallJSON(t, map[string]interface{}{
		"rawInput": map[string]interface{}{"file_path": path},
	})
	assert.True(t, IsSafeWritePath(tc, safe))
}

func TestUnsafeWritePathHome(t *testing.T) {
	safe := makeSafePaths(t)
	tc := toolCallJSON(t, map[string]interface{}{
		"rawInput": map[string]interface{}{"file_path": "/Users/someone/.bashrc"},
		"title":    "Write /Users/someone/.bashrc",
	})
	assert.False(t, IsSafeWritePath(tc, safe))
}

func TestUnsafeWritePathSystem(t *testing.T) {
	safe := makeSafePaths(t)
	tc := toolCallJSON(t, map[string]interface{}{
		"rawInput": map[string]interface{}{"file_path": "/etc/passwd"},
	})
	assert.False(t, IsSafeWritePath(tc, safe))
}

func TestSafeWritePathFromTitleFallback(t *testing.T) {
	safe := makeSafePaths(t)
	tc := toolCallJSON(t, map[string]interface{}{"title": "Write /tmp/shader.glsl"})
	assert.True(t, IsSafeWritePath(tc, safe))
}

func TestSafeWritePathNoPath(t *testing.T) {
	safe := makeSafePaths(t)
	tc := toolCallJSON(t, map[string]interface{}{"title": "Write"})
	assert.False(t, IsSafeWritePath(tc, safe))
}

func TestUnsafeWritePathTmpTraversal(t *testing.T) {
	safe := makeSafePaths(t)
	tc := toolCallJSON(t, map[string]interface{}{
		"rawInput": map[string]interface{}{"file_path": "/tmp/../etc/passwd"},
		"title":    "Write /tmp/../etc/passwd",
	})
	assert.False(t, IsSafeWritePath(tc, safe))
}

func TestUnsafeWritePathTmpSymlinkEscape(t *testing.T) {
	base := filepath.Join(os.TempDir(), fmt.Sprintf("par-term-acp-permissions-symlink-tests-%d", os.Getpid()))
	safeRoot := filepath.Join(base, "safe")
	configDir := filepath.Join(base, "config")
	require.NoError(t, os.MkdirAll(safeRoot, 0o755))
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	t.Cleanup(func() { os.RemoveAll(base) })
	require.NoError(t, os.Symlink("/etc", filepath.Join(safeRoot, "escape")))

	safe := SafePaths{ShadersDir: safeRoot, ConfigDir: configDir}
	escaped := filepath.Join(safeRoot, "escape", "leak.glsl")
	tc := toolCallJSON(t, map[string]interface{}{
		"rawInput": map[string]interface{}{"file_path": escaped},
		"title":    "Write " + escaped,
	})
	assert.False(t, IsSafeWritePath(tc, safe))
}
