package prettifier

import "strings"

// MarkdownRenderer renders a subset of Markdown well suited to terminal
// display: ATX headers, fenced code blocks, bullet/numbered lists, and
// bold/italic emphasis markers stripped in favor of style spans applied by
// the caller. No markdown library appears anywhere in the retrieval pack,
// so this renderer is a small hand-rolled line-oriented pass rather than a
// wrapped dependency; see DESIGN.md.
type MarkdownRenderer struct{}

func (MarkdownRenderer) ID() string { return "markdown" }

func (MarkdownRenderer) Render(block Block) (Rendered, error) {
	lines := strings.Split(block.Source, "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	listDepth := 0

	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")

		if strings.HasPrefix(strings.TrimSpace(trimmed), "```") {
			inFence = !inFence
			out = append(out, trimmed)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		if level, rest := atxHeaderLevel(trimmed); level > 0 {
			out = append(out, strings.Repeat("#", level)+" "+strings.TrimSpace(rest))
			continue
		}

		if item, depth, ok := listItem(trimmed); ok {
			listDepth = depth
			out = append(out, strings.Repeat("  ", depth)+"- "+item)
			continue
		}
		listDepth = 0

		out = append(out, stripInlineEmphasis(trimmed))
	}
	_ = listDepth

	return Rendered{Lines: out, Badge: "MD"}, nil
}

// atxHeaderLevel returns the header level (1-6) and remaining text if line
// is an ATX header ("## Title"), or 0 if it isn't.
func atxHeaderLevel(line string) (int, string) {
	level := 0
	for level < len(line) && level < 6 && line[level] == '#' {
		level++
	}
	if level == 0 || level >= len(line) || line[level] != ' ' {
		return 0, ""
	}
	return level, line[level+1:]
}

// listItem recognizes "- item", "* item", and numbered "1. item" forms,
// reporting the item text and nesting depth (two spaces per level).
func listItem(line string) (string, int, bool) {
	indent := 0
	for indent < len(line) && line[indent] == ' ' {
		indent++
	}
	rest := line[indent:]
	depth := indent / 2

	if strings.HasPrefix(rest, "- ") {
		return rest[2:], depth, true
	}
	if strings.HasPrefix(rest, "* ") {
		return rest[2:], depth, true
	}
	if dot := strings.Index(rest, ". "); dot > 0 && dot <= 3 {
		if isAllDigits(rest[:dot]) {
			return rest[dot+2:], depth, true
		}
	}
	return "", 0, false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stripInlineEmphasis removes markdown emphasis markers, leaving the text
// the caller will re-style. This intentionally drops nested emphasis
// tracking: ***a*** becomes "a" rather than bold-italic "a".
func stripInlineEmphasis(line string) string {
	for _, marker := range []string{"***", "**", "*", "__", "_", "`"} {
		line = strings.ReplaceAll(line, marker, "")
	}
	return line
}
