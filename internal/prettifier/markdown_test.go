package prettifier

import (
	"strings"
	"testing"
)

func TestMarkdownRendererHeaders(t *testing.T) {
	rendered, err := MarkdownRenderer{}.Render(Block{Source: "## Section\nbody text"})
	if err != nil {
		t.Fatal(err)
	}
	if rendered.Lines[0] != "## Section" {
		t.Errorf("unexpected header line %q", rendered.Lines[0])
	}
	if rendered.Badge != "MD" {
		t.Errorf("unexpected badge %q", rendered.Badge)
	}
}

func TestMarkdownRendererPreservesFencedCodeBlocks(t *testing.T) {
	source := "```go\nfunc main() {}\n```"
	rendered, err := MarkdownRenderer{}.Render(Block{Source: source})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(rendered.Lines, "\n") != source {
		t.Errorf("expected fenced block passed through unchanged, got %q", rendered.Lines)
	}
}

func TestMarkdownRendererListItems(t *testing.T) {
	rendered, err := MarkdownRenderer{}.Render(Block{Source: "- first\n  - nested"})
	if err != nil {
		t.Fatal(err)
	}
	if rendered.Lines[0] != "- first" {
		t.Errorf("unexpected top-level item %q", rendered.Lines[0])
	}
	if rendered.Lines[1] != "  - nested" {
		t.Errorf("unexpected nested item %q", rendered.Lines[1])
	}
}

func TestMarkdownRendererStripsInlineEmphasis(t *testing.T) {
	rendered, err := MarkdownRenderer{}.Render(Block{Source: "plain **bold** and *italic*"})
	if err != nil {
		t.Fatal(err)
	}
	if rendered.Lines[0] != "plain bold and italic" {
		t.Errorf("unexpected line %q", rendered.Lines[0])
	}
}
