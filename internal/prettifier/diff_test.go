package prettifier

import "testing"

func TestDiffRendererParsesUnifiedDiff(t *testing.T) {
	source := `diff --git a/foo.go b/foo.go
index abc..def 100644
--- a/foo.go
+++ b/foo.go
@@ -1,3 +1,3 @@
 unchanged
-removed line
+added line
`
	rendered, err := NewDiffRenderer(DefaultDiffRendererConfig()).Render(Block{Source: source})
	if err != nil {
		t.Fatal(err)
	}

	var sawAdd, sawRemove bool
	for _, l := range rendered.Lines {
		if l == "+added line" {
			sawAdd = true
		}
		if l == "-removed line" {
			sawRemove = true
		}
	}
	if !sawAdd {
		t.Error("expected an added line")
	}
	if !sawRemove {
		t.Error("expected a removed line")
	}
	if rendered.Badge != "DIFF" {
		t.Errorf("unexpected badge %q", rendered.Badge)
	}
}

func TestDiffRendererStripsMetadataLines(t *testing.T) {
	source := `diff --git a/foo.go b/foo.go
--- a/foo.go
+++ b/foo.go
@@ -1 +1 @@
-old
+new
`
	rendered, err := NewDiffRenderer(DefaultDiffRendererConfig()).Render(Block{Source: source})
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range rendered.Lines {
		if l == "diff --git a/foo.go b/foo.go" {
			t.Error("expected diff --git header line to be stripped")
		}
	}
}

func TestDiffRendererFallsBackToLineDiffForBeforeAfterPairs(t *testing.T) {
	source := "line one\nline two\n---\nline one\nline changed\n"
	rendered, err := NewDiffRenderer(DefaultDiffRendererConfig()).Render(Block{Source: source})
	if err != nil {
		t.Fatal(err)
	}
	if len(rendered.Lines) == 0 {
		t.Fatal("expected rendered lines")
	}
}

func TestDiffRendererTreatsPlainTextAsAllAdded(t *testing.T) {
	rendered, err := NewDiffRenderer(DefaultDiffRendererConfig()).Render(Block{Source: "just some text\nmore text"})
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range rendered.Lines {
		if len(l) == 0 || l[0] != '+' {
			t.Errorf("expected every line prefixed with +, got %q", l)
		}
	}
}
