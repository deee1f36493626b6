package marks

import "strings"

// SearchResult is one line-level text match, normalized to an absolute
// scrollback line number regardless of whether it came from the live
// grid or the scrollback ring.
type SearchResult struct {
	AbsoluteLine int
	Text         string
}

// VisibleSource is the live grid surface SearchVisible reads.
type VisibleSource interface {
	VisibleRowCount() int
	VisibleRowText(row int) string
}

// ScrollbackSource is the scrollback-ring surface SearchScrollback reads.
type ScrollbackSource interface {
	Count() int
	LineText(index int) string
}

// SearchVisible scans every row currently on screen for query
// (case-insensitive substring match), returning hits with absolute line
// numbers anchored at scrollbackLen (the number of lines already pushed
// into scrollback, i.e. row 0 of the live grid is absolute line
// scrollbackLen).
func SearchVisible(query string, src VisibleSource, scrollbackLen int) []SearchResult {
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)
	var hits []SearchResult
	for row := 0; row < src.VisibleRowCount(); row++ {
		text := src.VisibleRowText(row)
		if strings.Contains(strings.ToLower(text), needle) {
			hits = append(hits, SearchResult{AbsoluteLine: scrollbackLen + row, Text: text})
		}
	}
	return hits
}

// SearchScrollback scans the scrollback ring for query, most recent
// lines first, stopping after maxLines lines have been examined (nil
// means scan the whole ring). oldestAbsoluteLine is the absolute line
// number of the ring's index 0 (its oldest retained line), which is how
// a ring index - a value with no stable meaning once older lines are
// evicted - gets normalized into the same absolute-line space SearchVisible
// and the mark Index use.
func SearchScrollback(query string, src ScrollbackSource, oldestAbsoluteLine int, maxLines *int) []SearchResult {
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)
	count := src.Count()
	limit := count
	if maxLines != nil && *maxLines < limit {
		limit = *maxLines
	}

	var hits []SearchResult
	for i := 0; i < limit; i++ {
		index := count - 1 - i
		text := src.LineText(index)
		if strings.Contains(strings.ToLower(text), needle) {
			hits = append(hits, SearchResult{AbsoluteLine: oldestAbsoluteLine + index, Text: text})
		}
	}
	return hits
}
