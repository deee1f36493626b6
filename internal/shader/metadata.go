// Package shader parses and updates the YAML metadata block embedded in
// Shadertoy-style GLSL shaders, and wraps those shaders in the GLSL
// shell that a Transpiler turns into the WGSL a GPU renderer runs.
package shader

import (
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// metadataMarker identifies the start of a shader's embedded metadata
// comment block.
const metadataMarker = "/*! par-term shader metadata"

// Defaults are the per-shader default values an author can bake into a
// shader's metadata block, consulted when a user hasn't overridden them.
type Defaults struct {
	AnimationSpeed *float64 `yaml:"animation_speed,omitempty"`
	Brightness     *float64 `yaml:"brightness,omitempty"`
	FullContent    *bool    `yaml:"full_content,omitempty"`
	Channel0       string   `yaml:"channel0,omitempty"`
	Channel1       string   `yaml:"channel1,omitempty"`
	Channel2       string   `yaml:"channel2,omitempty"`
	Channel3       string   `yaml:"channel3,omitempty"`
	Channel4       string   `yaml:"channel4,omitempty"`
}

// Metadata is the parsed contents of a shader's metadata comment block.
type Metadata struct {
	Name        string   `yaml:"name,omitempty"`
	Author      string   `yaml:"author,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Version     string   `yaml:"version,omitempty"`
	Defaults    Defaults `yaml:"defaults,omitempty"`
}

// ParseMetadata looks for a `/*! par-term shader metadata ... */` block
// at the top of source and parses the YAML content within, returning
// (nil, false) if no block is present or it fails to parse.
func ParseMetadata(source string) (*Metadata, bool) {
	start := strings.Index(source, metadataMarker)
	if start < 0 {
		return nil, false
	}

	afterMarker := source[start+len(metadataMarker):]
	nl := strings.IndexByte(afterMarker, '\n')
	if nl < 0 {
		return nil, false
	}
	yamlStart := start + len(metadataMarker) + nl + 1

	closeIdx := strings.Index(source[yamlStart:], "*/")
	if closeIdx < 0 {
		return nil, false
	}
	yamlContent := strings.TrimSpace(source[yamlStart : yamlStart+closeIdx])

	var meta Metadata
	if err := yaml.Unmarshal([]byte(yamlContent), &meta); err != nil {
		return nil, false
	}
	return &meta, true
}

// SerializeMetadata renders metadata as a bare YAML string (no comment
// wrapper).
func SerializeMetadata(meta *Metadata) (string, error) {
	out, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("serialize shader metadata: %w", err)
	}
	return string(out), nil
}

// FormatMetadataBlock renders metadata as a complete comment block ready
// to insert into a shader file.
func FormatMetadataBlock(meta *Metadata) (string, error) {
	yamlStr, err := SerializeMetadata(meta)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n%s\n*/", metadataMarker, strings.TrimRight(yamlStr, "\n")), nil
}

// UpdateMetadata replaces an existing metadata block in source with one
// built from meta, or inserts a new block at the top of the file if
// source has none yet.
func UpdateMetadata(source string, meta *Metadata) (string, error) {
	block, err := FormatMetadataBlock(meta)
	if err != nil {
		return "", err
	}

	if start := strings.Index(source, metadataMarker); start >= 0 {
		if closeOffset := strings.Index(source[start:], "*/"); closeOffset >= 0 {
			end := start + closeOffset + len("*/")
			var b strings.Builder
			b.WriteString(source[:start])
			b.WriteString(block)
			b.WriteString(source[end:])
			return b.String(), nil
		}
	}

	return fmt.Sprintf("%s\n\n%s", block, source), nil
}
