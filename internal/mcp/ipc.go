package mcp

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ellery/par-term/internal/config"
)

// configUpdatePath resolves the file config_update writes to: the
// PAR_TERM_CONFIG_UPDATE_PATH override, or <xdg_config>/par-term/.config-update.json.
func configUpdatePath() string {
	if p := os.Getenv("PAR_TERM_CONFIG_UPDATE_PATH"); p != "" {
		return p
	}
	return filepath.Join(config.ConfigDir, ".config-update.json")
}

func screenshotRequestPath() string {
	if p := os.Getenv("PAR_TERM_SCREENSHOT_REQUEST_PATH"); p != "" {
		return p
	}
	return filepath.Join(config.ConfigDir, ".screenshot-request.json")
}

func screenshotResponsePath() string {
	if p := os.Getenv("PAR_TERM_SCREENSHOT_RESPONSE_PATH"); p != "" {
		return p
	}
	return filepath.Join(config.ConfigDir, ".screenshot-response.json")
}

// writeAtomic writes data to path by writing to path+".tmp" then
// renaming over the destination, so a concurrent reader never observes
// a partially-written file. On POSIX the final file is chmod 0600.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(path, 0o600); err != nil {
			return fmt.Errorf("chmod: %w", err)
		}
	}
	return nil
}

// configUpdate implements the config_update tool: {updates: object} is
// pretty-printed and atomically written to configUpdatePath() for the
// running terminal to pick up and revalidate.
func (t *Tools) configUpdate(args map[string]interface{}) (string, error) {
	updates, ok := args["updates"]
	if !ok {
		return "", fmt.Errorf("updates is required")
	}

	data, err := json.MarshalIndent(updates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal updates: %w", err)
	}

	path := configUpdatePath()
	if err := writeAtomic(path, data); err != nil {
		return "", fmt.Errorf("write config update: %w", err)
	}

	return fmt.Sprintf("Successfully wrote configuration update to %s", path), nil
}

// screenshotRequest is written by the app and consumed by the host;
// here the tool writes it and reads the matching response.
type screenshotRequest struct {
	RequestID string `json:"request_id"`
}

// screenshotResponse is the matching reply the running terminal writes
// once it has rendered and captured the requested frame.
type screenshotResponse struct {
	RequestID  string `json:"request_id"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	MimeType   string `json:"mime_type,omitempty"`
	DataBase64 string `json:"data_base64,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
}

const (
	screenshotPollInterval = 50 * time.Millisecond
	screenshotPollTimeout  = 5 * time.Second
)

// terminalScreenshot implements the terminal_screenshot tool: it writes
// a request file naming a fresh request id, polls for the matching
// response file, and returns the image as a "data:<mime>;base64,..." URL
// followed by its byte size and dimensions (or a tool error if the terminal
// never answers before the timeout). The server sends this string as a text
// content item; no MCP image content item is produced.
func (t *Tools) terminalScreenshot(args map[string]interface{}) (string, error) {
	requestID := fmt.Sprintf("%d", time.Now().UnixNano())

	reqData, err := json.Marshal(screenshotRequest{RequestID: requestID})
	if err != nil {
		return "", fmt.Errorf("marshal screenshot request: %w", err)
	}
	if err := writeAtomic(screenshotRequestPath(), reqData); err != nil {
		return "", fmt.Errorf("write screenshot request: %w", err)
	}

	resp, err := pollScreenshotResponse(requestID, screenshotPollInterval, screenshotPollTimeout)
	if err != nil {
		return "", err
	}
	if !resp.OK {
		return "", fmt.Errorf("screenshot failed: %s", resp.Error)
	}

	decoded, err := base64.StdEncoding.DecodeString(resp.DataBase64)
	if err != nil {
		return "", fmt.Errorf("decode screenshot data: %w", err)
	}

	return fmt.Sprintf("data:%s;base64,%s (%d bytes, %dx%d)", resp.MimeType, base64.StdEncoding.EncodeToString(decoded), len(decoded), resp.Width, resp.Height), nil
}

func pollScreenshotResponse(requestID string, interval, timeout time.Duration) (*screenshotResponse, error) {
	deadline := time.Now().Add(timeout)
	path := screenshotResponsePath()

	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil {
			var resp screenshotResponse
			if jsonErr := json.Unmarshal(data, &resp); jsonErr == nil && resp.RequestID == requestID {
				return &resp, nil
			}
		}
		time.Sleep(interval)
	}

	return nil, fmt.Errorf("timed out waiting for screenshot response")
}
