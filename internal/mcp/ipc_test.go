package mcp

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteAtomicSetsPermissionsAndContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := writeAtomic(path, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("writeAtomic failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("expected temp file to be renamed away, stat err: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestTerminalScreenshotPollsForMatchingResponse(t *testing.T) {
	dir := t.TempDir()
	reqPath := filepath.Join(dir, "req.json")
	respPath := filepath.Join(dir, "resp.json")
	t.Setenv("PAR_TERM_SCREENSHOT_REQUEST_PATH", reqPath)
	t.Setenv("PAR_TERM_SCREENSHOT_RESPONSE_PATH", respPath)

	tools := NewTools(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Wait for the request file to appear, then answer it.
		var reqID string
		for i := 0; i < 100; i++ {
			data, err := os.ReadFile(reqPath)
			if err == nil {
				var req screenshotRequest
				if json.Unmarshal(data, &req) == nil && req.RequestID != "" {
					reqID = req.RequestID
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
		}
		if reqID == "" {
			return
		}
		resp := screenshotResponse{
			RequestID:  reqID,
			OK:         true,
			MimeType:   "image/png",
			DataBase64: base64.StdEncoding.EncodeToString([]byte("fake-png-bytes")),
			Width:      80,
			Height:     24,
		}
		data, _ := json.Marshal(resp)
		_ = writeAtomic(respPath, data)
	}()

	result, err := tools.terminalScreenshot(map[string]interface{}{})
	<-done
	if err != nil {
		t.Fatalf("terminalScreenshot failed: %v", err)
	}
	if result == "" {
		t.Fatal("expected non-empty screenshot payload")
	}
}

func TestTerminalScreenshotTimesOutWithoutResponse(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAR_TERM_SCREENSHOT_REQUEST_PATH", filepath.Join(dir, "req.json"))
	t.Setenv("PAR_TERM_SCREENSHOT_RESPONSE_PATH", filepath.Join(dir, "resp-never-written.json"))

	tools := NewTools(nil)

	_, err := pollScreenshotResponse("never-answered", time.Millisecond, 20*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	_ = tools
}
