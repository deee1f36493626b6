// Package marks tracks shell-integration prompt/command boundaries
// (OSC 133) against absolute scrollback line numbers, so callers can jump
// to the previous/next prompt and search command history without
// re-scanning the grid.
package marks

import "sort"

// Kind is the shell-integration event type an OSC 133 marker reports.
type Kind int

const (
	PromptStart Kind = iota
	CommandStart
	CommandExecuted
	CommandFinished
)

func (k Kind) String() string {
	switch k {
	case PromptStart:
		return "prompt_start"
	case CommandStart:
		return "command_start"
	case CommandExecuted:
		return "command_executed"
	case CommandFinished:
		return "command_finished"
	default:
		return "unknown"
	}
}

// Mark is one scrollback-mark index entry.
type Mark struct {
	AbsoluteLine int
	Kind         Kind
	CommandText  string
	ExitCode     *int
	TimestampMs  int64
}

// Index is a sorted-by-AbsoluteLine mark list. Marks arrive in
// non-decreasing AbsoluteLine order (the order the emulator queued the
// underlying shell-integration events), so Add is an append, not a
// sorted insert; a mark older than the last one is rejected rather than
// silently reordering the index.
type Index struct {
	marks []Mark
}

// Add appends m if it maintains the index's monotonic-AbsoluteLine
// invariant. Returns false (and does nothing) for an out-of-order mark.
func (idx *Index) Add(m Mark) bool {
	if len(idx.marks) > 0 && m.AbsoluteLine < idx.marks[len(idx.marks)-1].AbsoluteLine {
		return false
	}
	idx.marks = append(idx.marks, m)
	return true
}

// Len returns the number of retained marks.
func (idx *Index) Len() int {
	return len(idx.marks)
}

// All returns every retained mark, oldest first.
func (idx *Index) All() []Mark {
	return idx.marks
}

// EvictBefore atomically drops every mark whose AbsoluteLine is less than
// oldestRetainedLine, matching the scrollback buffer's own eviction of
// lines that fall off the front of the ring.
func (idx *Index) EvictBefore(oldestRetainedLine int) {
	cut := sort.Search(len(idx.marks), func(i int) bool {
		return idx.marks[i].AbsoluteLine >= oldestRetainedLine
	})
	idx.marks = idx.marks[cut:]
}

// PreviousPrompt returns the last mark with Kind == PromptStart whose
// AbsoluteLine is strictly less than fromLine, and whether one was found.
// Binary search over the sorted index keeps this O(log n).
func (idx *Index) PreviousPrompt(fromLine int) (Mark, bool) {
	i := sort.Search(len(idx.marks), func(i int) bool {
		return idx.marks[i].AbsoluteLine >= fromLine
	})
	for i--; i >= 0; i-- {
		if idx.marks[i].Kind == PromptStart {
			return idx.marks[i], true
		}
	}
	return Mark{}, false
}

// NextPrompt returns the first mark with Kind == PromptStart whose
// AbsoluteLine is strictly greater than fromLine, and whether one was
// found.
func (idx *Index) NextPrompt(fromLine int) (Mark, bool) {
	i := sort.Search(len(idx.marks), func(i int) bool {
		return idx.marks[i].AbsoluteLine > fromLine
	})
	for ; i < len(idx.marks); i++ {
		if idx.marks[i].Kind == PromptStart {
			return idx.marks[i], true
		}
	}
	return Mark{}, false
}
