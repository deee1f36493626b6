package shader

import (
	"strings"
	"testing"
)

func TestParseMetadataBasic(t *testing.T) {
	source := `/*! par-term shader metadata
name: "Test Shader"
author: "Test Author"
description: "A test shader"
version: "1.0.0"
*/

void mainImage(out vec4 fragColor, in vec2 fragCoord) {
    fragColor = vec4(1.0);
}
`
	meta, ok := ParseMetadata(source)
	if !ok {
		t.Fatal("expected metadata to parse")
	}
	if meta.Name != "Test Shader" || meta.Author != "Test Author" || meta.Description != "A test shader" || meta.Version != "1.0.0" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestParseMetadataWithDefaults(t *testing.T) {
	source := `/*! par-term shader metadata
name: "CRT Effect"
defaults:
  animation_speed: 0.5
  brightness: 0.85
  full_content: true
  channel0: "textures/noise.png"
*/

void mainImage(out vec4 fragColor, in vec2 fragCoord) {
    fragColor = vec4(1.0);
}
`
	meta, ok := ParseMetadata(source)
	if !ok {
		t.Fatal("expected metadata to parse")
	}
	if meta.Defaults.AnimationSpeed == nil || *meta.Defaults.AnimationSpeed != 0.5 {
		t.Fatalf("expected animation_speed 0.5, got %+v", meta.Defaults.AnimationSpeed)
	}
	if meta.Defaults.Brightness == nil || *meta.Defaults.Brightness != 0.85 {
		t.Fatalf("expected brightness 0.85, got %+v", meta.Defaults.Brightness)
	}
	if meta.Defaults.FullContent == nil || !*meta.Defaults.FullContent {
		t.Fatalf("expected full_content true, got %+v", meta.Defaults.FullContent)
	}
	if meta.Defaults.Channel0 != "textures/noise.png" {
		t.Fatalf("expected channel0 textures/noise.png, got %q", meta.Defaults.Channel0)
	}
}

func TestParseMetadataNotFound(t *testing.T) {
	source := `// Regular shader without metadata
void mainImage(out vec4 fragColor, in vec2 fragCoord) {
    fragColor = vec4(1.0);
}
`
	_, ok := ParseMetadata(source)
	if ok {
		t.Fatal("expected no metadata to be found")
	}
}

func TestParseMetadataPartial(t *testing.T) {
	source := `/*! par-term shader metadata
name: "Minimal Shader"
*/

void mainImage(out vec4 fragColor, in vec2 fragCoord) {
    fragColor = vec4(1.0);
}
`
	meta, ok := ParseMetadata(source)
	if !ok {
		t.Fatal("expected metadata to parse")
	}
	if meta.Name != "Minimal Shader" {
		t.Fatalf("unexpected name %q", meta.Name)
	}
	if meta.Author != "" || meta.Description != "" {
		t.Fatalf("expected empty author/description, got %+v", meta)
	}
	if meta.Defaults.AnimationSpeed != nil {
		t.Fatalf("expected nil animation_speed, got %v", *meta.Defaults.AnimationSpeed)
	}
}

func TestUpdateMetadataExistingBlock(t *testing.T) {
	source := `/*! par-term shader metadata
name: "Old Name"
version: "1.0.0"
*/

void mainImage(out vec4 fragColor, in vec2 fragCoord) {
    fragColor = vec4(1.0);
}
`
	newMeta := &Metadata{Name: "New Name", Author: "New Author", Version: "2.0.0"}
	result, err := UpdateMetadata(source, newMeta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result, "New Name") || !strings.Contains(result, "New Author") || !strings.Contains(result, "2.0.0") {
		t.Fatalf("expected new metadata in result:\n%s", result)
	}
	if strings.Contains(result, "Old Name") {
		t.Fatalf("expected old metadata to be gone:\n%s", result)
	}
	if !strings.Contains(result, "void mainImage") {
		t.Fatalf("expected shader code preserved:\n%s", result)
	}
}

func TestUpdateMetadataNoExistingBlock(t *testing.T) {
	source := `// Simple shader without metadata
void mainImage(out vec4 fragColor, in vec2 fragCoord) {
    fragColor = vec4(1.0);
}
`
	newMeta := &Metadata{Name: "New Shader", Version: "1.0.0"}
	result, err := UpdateMetadata(source, newMeta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result[:len(metadataMarker)] != metadataMarker {
		t.Fatalf("expected result to start with metadata marker, got:\n%s", result)
	}
	if !strings.Contains(result, "New Shader") || !strings.Contains(result, "void mainImage") {
		t.Fatalf("expected new metadata and preserved shader code:\n%s", result)
	}
}

func TestFormatMetadataBlock(t *testing.T) {
	meta := &Metadata{Name: "Test Shader", Author: "Test Author", Description: "A test shader", Version: "1.0.0"}
	block, err := FormatMetadataBlock(meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if block[:len(metadataMarker)] != metadataMarker {
		t.Fatalf("expected block to start with marker, got:\n%s", block)
	}
	if block[len(block)-2:] != "*/" {
		t.Fatalf("expected block to end with */, got:\n%s", block)
	}
	if !strings.Contains(block, "Test Shader") || !strings.Contains(block, "Test Author") {
		t.Fatalf("expected fields present in block:\n%s", block)
	}
}
