package acp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// IsSafeWritePath extracts the target file path from a tool_call JSON
// payload and reports whether it falls inside a directory that can be
// auto-approved for writes without user confirmation: /tmp, /var/folders,
// $TMPDIR, the shaders directory, or the config directory.
//
// Existing paths are fully canonicalized (resolving symlinks and ".."
// components); paths that do not exist yet have their parent directory
// canonicalized and the final component re-appended. This blocks
// prefix-based traversal tricks while still allowing new-file creation
// inside a safe root. A residual TOCTOU race remains between this check
// and the agent's actual write, inherent to any permission check
// performed out-of-band from the I/O itself; the safe roots named here
// are all locations the user already controls.
func IsSafeWritePath(toolCall json.RawMessage, safe SafePaths) bool {
	pathStr := extractToolCallPath(toolCall)
	if pathStr == "" {
		return false
	}
	if !filepath.IsAbs(pathStr) {
		return false
	}

	target, ok := resolveTarget(pathStr)
	if !ok {
		return false
	}

	roots := []string{"/tmp", "/var/folders", safe.ShadersDir, safe.ConfigDir}
	if tmpDir := os.Getenv("TMPDIR"); tmpDir != "" {
		roots = append(roots, tmpDir)
	}

	for _, root := range roots {
		if root == "" {
			continue
		}
		canonicalRoot, err := filepath.EvalSymlinks(root)
		if err != nil {
			continue
		}
		canonicalRoot, err = filepath.Abs(canonicalRoot)
		if err != nil {
			continue
		}
		if pathHasPrefix(target, canonicalRoot) {
			return true
		}
	}
	return false
}

func resolveTarget(pathStr string) (string, bool) {
	if _, err := os.Lstat(pathStr); err == nil {
		real, err := filepath.EvalSymlinks(pathStr)
		if err != nil {
			return "", false
		}
		abs, err := filepath.Abs(real)
		if err != nil {
			return "", false
		}
		return abs, true
	}

	parent := filepath.Dir(pathStr)
	parentReal, err := filepath.EvalSymlinks(parent)
	if err != nil {
		return "", false
	}
	parentAbs, err := filepath.Abs(parentReal)
	if err != nil {
		return "", false
	}
	return filepath.Join(parentAbs, filepath.Base(pathStr)), true
}

// pathHasPrefix reports whether target is root or a descendant of root,
// comparing path components rather than raw strings so that "/tmpfoo"
// is not considered a descendant of "/tmp".
func pathHasPrefix(target, root string) bool {
	target = filepath.Clean(target)
	root = filepath.Clean(root)
	if target == root {
		return true
	}
	return strings.HasPrefix(target, root+string(filepath.Separator))
}

// extractToolCallPath pulls a file path out of the various shapes
// different agent backends put it in: rawInput.file_path/filePath/path,
// or the second whitespace-separated word of a "Write /path/to/file" title.
func extractToolCallPath(toolCall json.RawMessage) string {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(toolCall, &generic); err != nil {
		return ""
	}

	if rawInput, ok := generic["rawInput"]; ok {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(rawInput, &fields); err == nil {
			for _, key := range []string{"file_path", "filePath", "path"} {
				if raw, ok := fields[key]; ok {
					var s string
					if json.Unmarshal(raw, &s) == nil && s != "" {
						return s
					}
				}
			}
		}
	}

	if raw, ok := generic["title"]; ok {
		var title string
		if json.Unmarshal(raw, &title) == nil {
			parts := strings.Fields(title)
			if len(parts) >= 2 {
				return parts[1]
			}
		}
	}

	return ""
}
