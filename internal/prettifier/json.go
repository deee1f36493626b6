package prettifier

import (
	"bytes"
	"encoding/json"
	"strings"
)

// JSONRenderer re-indents JSON command output for readability. No
// third-party JSON pretty-printer appears in the retrieval pack (the only
// json-related modules found are indirect k8s.io/client-go transitive
// deps, unrelated to terminal output formatting), so this stays on
// encoding/json; see DESIGN.md.
type JSONRenderer struct{}

func (JSONRenderer) ID() string { return "json" }

func (JSONRenderer) Render(block Block) (Rendered, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(block.Source), "", "  "); err != nil {
		return Rendered{}, err
	}
	return Rendered{
		Lines: strings.Split(buf.String(), "\n"),
		Badge: "{} JSON",
	}, nil
}
