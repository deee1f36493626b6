package marks

import "bytes"

// ShellIntegrationEvent is one parsed OSC 133 marker, paired with the
// cursor position the emulator reported immediately after the marker's
// byte offset in the stream (not at drain time, which could otherwise
// collapse several markers that land in the same read() into one
// position).
type ShellIntegrationEvent struct {
	Kind        Kind
	Command     string
	ExitCode    *int
	CursorCol   int
	CursorRow   int
	ScrollbackLen int
}

const (
	oscPromptStart      = 'A'
	oscCommandStart     = 'B'
	oscCommandExecuted  = 'C'
	oscCommandFinished  = 'D'
)

// Scanner splits a raw PTY byte stream on OSC 133 marker boundaries. The
// vendored terminal emulator has no native shell-integration awareness,
// so Process reads markers out of the stream itself, hands the
// surrounding plain bytes to write (the emulator's own Write), and
// samples cursor position via cursorFn immediately after each marker's
// preceding chunk has been written - as close to "the instant the
// marker was parsed" as this emulator's interface allows.
type Scanner struct {
	// carry holds a possible partial ESC sequence split across two
	// PTY reads, to be prepended to the next Process call's data.
	carry []byte
}

// CursorFunc reports the emulator's current cursor column/row and the
// number of lines already pushed into scrollback.
type CursorFunc func() (col, row, scrollbackLen int)

// WriteFunc writes a chunk of plain terminal bytes through the
// emulator, exactly like the raw PTY write it is standing in for.
type WriteFunc func([]byte)

// Process consumes data, writing every non-marker byte range through
// write in order and returning the shell-integration events found along
// the way, each carrying the cursor position captured right after its
// marker.
func (s *Scanner) Process(data []byte, write WriteFunc, cursor CursorFunc) []ShellIntegrationEvent {
	if len(s.carry) > 0 {
		data = append(s.carry, data...)
		s.carry = nil
	}

	var events []ShellIntegrationEvent
	for {
		start := bytes.Index(data, []byte("\x1b]133;"))
		if start < 0 {
			// No marker; but the tail might be the start of one that
			// hasn't fully arrived yet. Hold back a possible partial
			// prefix so it can be completed by the next read.
			if tail := partialMarkerTail(data); tail > 0 {
				write(data[:len(data)-tail])
				s.carry = append(s.carry, data[len(data)-tail:]...)
			} else {
				write(data)
			}
			return events
		}

		if start > 0 {
			write(data[:start])
		}

		end, ev, ok := parseMarker(data[start:])
		if !ok {
			// Marker looks truncated; carry the rest for next time.
			s.carry = append(s.carry, data[start:]...)
			return events
		}

		if ev != nil {
			col, row, sbLen := cursor()
			ev.CursorCol, ev.CursorRow, ev.ScrollbackLen = col, row, sbLen
			events = append(events, *ev)
		}

		data = data[start+end:]
	}
}

// partialMarkerTail returns the length of a suffix of data that could be
// the beginning of an as-yet-incomplete "\x1b]133;" marker, or 0 if data
// doesn't end in such a prefix.
func partialMarkerTail(data []byte) int {
	const marker = "\x1b]133;"
	max := len(marker) - 1
	if max > len(data) {
		max = len(data)
	}
	for n := max; n > 0; n-- {
		if bytes.Equal(data[len(data)-n:], []byte(marker[:n])) {
			return n
		}
	}
	return 0
}

// parseMarker parses one OSC 133 sequence starting at data[0:] (which
// must begin with "\x1b]133;"). It returns the byte length consumed, the
// resulting event (nil for marker kinds that don't produce one, e.g. an
// unrecognized subtype), and whether a complete, terminated sequence was
// found at all.
func parseMarker(data []byte) (consumed int, event *ShellIntegrationEvent, ok bool) {
	const prefix = "\x1b]133;"
	if len(data) <= len(prefix) {
		return 0, nil, false
	}
	body := data[len(prefix):]

	// Find the terminator: BEL (\x07) or ST (\x1b\\).
	termLen := -1
	var bodyEnd int
	for i := 0; i < len(body); i++ {
		if body[i] == '\x07' {
			termLen = 1
			bodyEnd = i
			break
		}
		if body[i] == '\x1b' && i+1 < len(body) && body[i+1] == '\\' {
			termLen = 2
			bodyEnd = i
			break
		}
	}
	if termLen < 0 {
		return 0, nil, false
	}

	fields := bytes.Split(body[:bodyEnd], []byte(";"))
	if len(fields) == 0 || len(fields[0]) != 1 {
		return len(prefix) + bodyEnd + termLen, nil, true
	}

	switch fields[0][0] {
	case oscPromptStart:
		event = &ShellIntegrationEvent{Kind: PromptStart}
	case oscCommandStart:
		event = &ShellIntegrationEvent{Kind: CommandStart}
	case oscCommandExecuted:
		event = &ShellIntegrationEvent{Kind: CommandExecuted}
	case oscCommandFinished:
		ev := &ShellIntegrationEvent{Kind: CommandFinished}
		if len(fields) > 1 {
			if code, ok := parseInt(fields[1]); ok {
				ev.ExitCode = &code
			}
		}
		event = ev
	}

	return len(prefix) + bodyEnd + termLen, event, true
}

func parseInt(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	neg := false
	for i, c := range b {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
