package prettifier

import "testing"

func defaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		ConfidenceThreshold: 0.5,
		MaxScanLines:        500,
	}
}

func TestDetectJSON(t *testing.T) {
	block, ok := Detect(defaultDetectionConfig(), `{"name": "par-term", "ok": true}`)
	if !ok || block.Format != "json" {
		t.Fatalf("want json detection, got %+v ok=%v", block, ok)
	}
}

func TestDetectRejectsInvalidJSON(t *testing.T) {
	_, ok := Detect(defaultDetectionConfig(), `{"name": "par-term", "ok": }`)
	if ok {
		t.Fatalf("malformed JSON should not be detected as json")
	}
}

func TestDetectDiff(t *testing.T) {
	source := "--- a/main.go\n+++ b/main.go\n@@ -1,3 +1,3 @@\n-old\n+new\n"
	block, ok := Detect(defaultDetectionConfig(), source)
	if !ok || block.Format != "diff" {
		t.Fatalf("want diff detection, got %+v ok=%v", block, ok)
	}
}

func TestDetectMarkdown(t *testing.T) {
	source := "# Title\n\n- item one\n- item two\n- item three\n"
	block, ok := Detect(defaultDetectionConfig(), source)
	if !ok || block.Format != "markdown" {
		t.Fatalf("want markdown detection, got %+v ok=%v", block, ok)
	}
}

func TestDetectPlainOutputMisses(t *testing.T) {
	_, ok := Detect(defaultDetectionConfig(), "total 24\ndrwxr-xr-x 5 user user 4096 Jul 30 12:00 .\n")
	if ok {
		t.Fatalf("plain ls-style output should not be detected")
	}
}

func TestDetectEmptySourceMisses(t *testing.T) {
	_, ok := Detect(defaultDetectionConfig(), "   \n  ")
	if ok {
		t.Fatalf("blank source should not be detected")
	}
}
