package marks

import "testing"

type fakeVisible struct {
	rows []string
}

func (v *fakeVisible) VisibleRowCount() int          { return len(v.rows) }
func (v *fakeVisible) VisibleRowText(row int) string { return v.rows[row] }

type fakeScrollback struct {
	lines []string
}

func (s *fakeScrollback) Count() int               { return len(s.lines) }
func (s *fakeScrollback) LineText(index int) string { return s.lines[index] }

func TestSearchVisibleNormalizesAbsoluteLine(t *testing.T) {
	v := &fakeVisible{rows: []string{"foo", "BAR baz", "qux"}}

	hits := SearchVisible("bar", v, 100)

	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].AbsoluteLine != 101 {
		t.Fatalf("expected absolute line 101, got %d", hits[0].AbsoluteLine)
	}
}

func TestSearchScrollbackNormalizesAbsoluteLineAndOrdersRecentFirst(t *testing.T) {
	sb := &fakeScrollback{lines: []string{"match one", "no hit", "match two"}}

	hits := SearchScrollback("match", sb, 50, nil)

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].AbsoluteLine != 52 {
		t.Fatalf("expected most recent hit first at absolute line 52, got %d", hits[0].AbsoluteLine)
	}
	if hits[1].AbsoluteLine != 50 {
		t.Fatalf("expected second hit at absolute line 50, got %d", hits[1].AbsoluteLine)
	}
}

func TestSearchScrollbackRespectsMaxLines(t *testing.T) {
	sb := &fakeScrollback{lines: []string{"match", "match", "match"}}
	max := 1

	hits := SearchScrollback("match", sb, 0, &max)

	if len(hits) != 1 {
		t.Fatalf("expected search to stop after maxLines=1, got %d hits", len(hits))
	}
}

func TestSearchEmptyQueryReturnsNoHits(t *testing.T) {
	v := &fakeVisible{rows: []string{"anything"}}
	if hits := SearchVisible("", v, 0); hits != nil {
		t.Fatalf("expected nil for empty query, got %+v", hits)
	}
}
