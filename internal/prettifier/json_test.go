package prettifier

import (
	"strings"
	"testing"
)

func TestJSONRendererIndents(t *testing.T) {
	rendered, err := JSONRenderer{}.Render(Block{Source: `{"a":1,"b":[2,3]}`})
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(rendered.Lines, "\n")
	if !strings.Contains(joined, "\"a\": 1") {
		t.Errorf("expected indented key, got %q", joined)
	}
	if rendered.Badge != "{} JSON" {
		t.Errorf("unexpected badge %q", rendered.Badge)
	}
}

func TestJSONRendererRejectsInvalidJSON(t *testing.T) {
	_, err := JSONRenderer{}.Render(Block{Source: `{not json}`})
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
