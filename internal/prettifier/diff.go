package prettifier

import (
	"strings"

	diffmatchpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// DiffLineKind classifies a rendered diff line for gutter/color purposes.
type DiffLineKind byte

const (
	DiffLineContext DiffLineKind = iota
	DiffLineAdded
	DiffLineDeleted
	DiffLineHeader
)

// DiffLine is one line of a rendered diff block: the content with its
// leading +/-/space marker stripped, and the classification used to color
// the gutter instead.
type DiffLine struct {
	Content string
	Kind    DiffLineKind
}

// DiffRenderer renders unified-diff-shaped command output (git diff, git
// show, etc.) by stripping the +/-/space prefixes and recording each
// line's kind for gutter rendering, the same separation of "clean content"
// from "diff metadata" the editor's own unified-diff viewer uses. When the
// source isn't already a unified diff (no "@@" hunk or "--- " header line),
// it falls back to computeLineDiff: a diffmatchpatch diff of the text
// before and after a "---" separator line, or, with no separator, every
// line marked as added.
type DiffRenderer struct {
	cfg DiffRendererConfig
}

func NewDiffRenderer(cfg DiffRendererConfig) DiffRenderer {
	return DiffRenderer{cfg: cfg}
}

func (DiffRenderer) ID() string { return "diff" }

func (r DiffRenderer) Render(block Block) (Rendered, error) {
	var diffLines []DiffLine
	if looksLikeUnifiedDiff(block.Source) {
		diffLines = parseUnifiedDiff(block.Source)
	} else {
		diffLines = computeLineDiff(block.Source)
	}

	lines := make([]string, 0, len(diffLines))
	for _, dl := range diffLines {
		lines = append(lines, diffPrefix(dl.Kind)+dl.Content)
	}
	return Rendered{Lines: lines, Badge: "DIFF"}, nil
}

func diffPrefix(kind DiffLineKind) string {
	switch kind {
	case DiffLineAdded:
		return "+"
	case DiffLineDeleted:
		return "-"
	case DiffLineHeader:
		return ""
	default:
		return " "
	}
}

func looksLikeUnifiedDiff(source string) bool {
	return strings.Contains(source, "\n@@") || strings.HasPrefix(source, "@@") ||
		strings.Contains(source, "\n--- ") || strings.HasPrefix(source, "--- ")
}

// parseUnifiedDiff strips unified-diff metadata lines (the "diff --git",
// "index", "---"/"+++", hunk header lines) and classifies the remaining
// hunk body lines, mirroring the editor's own git-diff viewer.
func parseUnifiedDiff(source string) []DiffLine {
	var out []DiffLine
	inHunk := false

	for _, line := range strings.Split(source, "\n") {
		switch {
		case strings.HasPrefix(line, "diff "),
			strings.HasPrefix(line, "index "),
			strings.HasPrefix(line, "--- "),
			strings.HasPrefix(line, "+++ "),
			strings.HasPrefix(line, "new file"),
			strings.HasPrefix(line, "deleted file"):
			inHunk = false
			continue
		case strings.HasPrefix(line, "@@"):
			inHunk = true
			out = append(out, DiffLine{Content: line, Kind: DiffLineHeader})
			continue
		}

		if !inHunk {
			continue
		}
		if line == "" {
			out = append(out, DiffLine{Kind: DiffLineContext})
			continue
		}

		switch line[0] {
		case '+':
			out = append(out, DiffLine{Content: line[1:], Kind: DiffLineAdded})
		case '-':
			out = append(out, DiffLine{Content: line[1:], Kind: DiffLineDeleted})
		case ' ':
			out = append(out, DiffLine{Content: line[1:], Kind: DiffLineContext})
		default:
			out = append(out, DiffLine{Content: line, Kind: DiffLineContext})
		}
	}
	return out
}

// computeLineDiff builds a unified-style diff between two halves of source
// separated by a "---" marker line (the convention used when an agent
// pastes "before\n---\nafter"), or treats the whole block as added content
// if no separator is found.
func computeLineDiff(source string) []DiffLine {
	parts := strings.SplitN(source, "\n---\n", 2)
	if len(parts) != 2 {
		var out []DiffLine
		for _, line := range strings.Split(source, "\n") {
			out = append(out, DiffLine{Content: line, Kind: DiffLineAdded})
		}
		return out
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(parts[0], parts[1], false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var out []DiffLine
	for _, d := range diffs {
		kind := DiffLineContext
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = DiffLineAdded
		case diffmatchpatch.DiffDelete:
			kind = DiffLineDeleted
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out = append(out, DiffLine{Content: line, Kind: kind})
		}
	}
	return out
}
