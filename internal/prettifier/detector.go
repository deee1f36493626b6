package prettifier

import (
	"encoding/json"
	"strings"
)

// Detect runs the built-in per-format heuristics against source and
// returns the highest-confidence Block that clears cfg's threshold. ok
// is false when nothing scores high enough — source stays as plain
// terminal output, the common case.
func Detect(cfg DetectionConfig, source string) (Block, bool) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return Block{}, false
	}
	if cfg.MaxScanLines > 0 {
		lines := strings.SplitN(trimmed, "\n", cfg.MaxScanLines+1)
		if len(lines) > cfg.MaxScanLines {
			trimmed = strings.Join(lines[:cfg.MaxScanLines], "\n")
		}
	}

	best := Block{Source: source}
	consider := func(format string, confidence float32) {
		if confidence > best.Confidence {
			best = Block{Format: format, Source: source, Confidence: confidence}
		}
	}

	consider("json", jsonConfidence(trimmed))
	consider("diff", diffConfidence(trimmed))
	consider("markdown", markdownConfidence(trimmed))

	if best.Format == "" || best.Confidence < cfg.ConfidenceThreshold {
		return Block{}, false
	}
	return best, true
}

// jsonConfidence reports high confidence only for output that actually
// parses, rather than just "looks bracketed", since json.Valid is cheap
// and command output is usually small enough that scanning it twice
// (once here, once in JSONRenderer.Render) is not a concern.
func jsonConfidence(s string) float32 {
	if !((strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))) {
		return 0
	}
	if !json.Valid([]byte(s)) {
		return 0
	}
	return 0.9
}

func diffConfidence(s string) float32 {
	if looksLikeUnifiedDiff(s) {
		return 0.9
	}
	return 0
}

// markdownConfidence scores a block by how many of its lines carry a
// recognizable markdown marker, capped well below 1.0 so a handful of
// matches doesn't outrank a clean JSON/diff detection.
func markdownConfidence(s string) float32 {
	lines := strings.Split(s, "\n")
	if len(lines) == 0 {
		return 0
	}
	hits := 0
	for _, l := range lines {
		t := strings.TrimSpace(l)
		switch {
		case strings.HasPrefix(t, "#"):
			hits++
		case strings.HasPrefix(t, "```"):
			hits++
		case strings.HasPrefix(t, "- "), strings.HasPrefix(t, "* "):
			hits++
		}
	}
	score := float32(hits) / float32(len(lines))
	if score > 0.8 {
		score = 0.8
	}
	return score
}
