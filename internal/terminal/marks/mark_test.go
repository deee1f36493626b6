package marks

import "testing"

func TestIndexAddRejectsOutOfOrderMark(t *testing.T) {
	var idx Index
	if !idx.Add(Mark{AbsoluteLine: 10, Kind: PromptStart}) {
		t.Fatal("expected first add to succeed")
	}
	if idx.Add(Mark{AbsoluteLine: 5, Kind: PromptStart}) {
		t.Fatal("expected out-of-order add to be rejected")
	}
	if idx.Len() != 1 {
		t.Fatalf("expected 1 mark, got %d", idx.Len())
	}
}

func TestIndexEvictBeforeDropsOlderMarks(t *testing.T) {
	var idx Index
	idx.Add(Mark{AbsoluteLine: 1, Kind: PromptStart})
	idx.Add(Mark{AbsoluteLine: 5, Kind: CommandStart})
	idx.Add(Mark{AbsoluteLine: 9, Kind: PromptStart})

	idx.EvictBefore(5)

	if idx.Len() != 2 {
		t.Fatalf("expected 2 marks retained, got %d", idx.Len())
	}
	if idx.All()[0].AbsoluteLine != 5 {
		t.Fatalf("expected oldest retained mark at line 5, got %d", idx.All()[0].AbsoluteLine)
	}
}

func TestIndexPreviousAndNextPrompt(t *testing.T) {
	var idx Index
	idx.Add(Mark{AbsoluteLine: 1, Kind: PromptStart})
	idx.Add(Mark{AbsoluteLine: 3, Kind: CommandStart})
	idx.Add(Mark{AbsoluteLine: 10, Kind: PromptStart})
	idx.Add(Mark{AbsoluteLine: 12, Kind: CommandStart})
	idx.Add(Mark{AbsoluteLine: 20, Kind: PromptStart})

	prev, ok := idx.PreviousPrompt(15)
	if !ok || prev.AbsoluteLine != 10 {
		t.Fatalf("expected previous prompt at line 10, got %+v (ok=%v)", prev, ok)
	}

	next, ok := idx.NextPrompt(15)
	if !ok || next.AbsoluteLine != 20 {
		t.Fatalf("expected next prompt at line 20, got %+v (ok=%v)", next, ok)
	}

	if _, ok := idx.NextPrompt(20); ok {
		t.Fatal("expected no prompt after the last one")
	}
	if _, ok := idx.PreviousPrompt(1); ok {
		t.Fatal("expected no prompt before the first one")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		PromptStart:      "prompt_start",
		CommandStart:     "command_start",
		CommandExecuted:  "command_executed",
		CommandFinished:  "command_finished",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
