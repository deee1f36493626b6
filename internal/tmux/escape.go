package tmux

import (
	"fmt"
	"strings"
)

// EscapeKeysForTmux converts raw input bytes into the tmux send-keys
// argument string. Byte-by-byte:
//
//	0x00        -> "C-Space "
//	0x01-0x1a   -> "C-<lowercase letter> " (Ctrl+A..Z)
//	0x1b        -> "Escape "
//	0x7f        -> "BSpace "
//	'\''         -> opens/continues a literal run, emitting '\'' for the quote itself
//	0x20 (space) -> "Space "
//	0x21-0x7e   -> accumulated inside a single-quoted literal run
//	other bytes -> "0xNN " (hex)
//
// The result is trimmed of trailing whitespace. Runs of printable ASCII
// are merged into a single quoted literal; the function is idempotent
// under concatenation only when neither side straddles a literal run
// (escape_keys_for_tmux(concat(a,b)) == escape_keys_for_tmux(a) + " " +
// escape_keys_for_tmux(b) under that condition).
func EscapeKeysForTmux(data []byte) string {
	var out strings.Builder
	var literal strings.Builder
	inLiteral := false

	closeLiteral := func() {
		if inLiteral {
			out.WriteByte('\'')
			out.WriteString(literal.String())
			out.WriteByte('\'')
			out.WriteByte(' ')
			literal.Reset()
			inLiteral = false
		}
	}

	openLiteral := func() {
		if !inLiteral {
			inLiteral = true
		}
	}

	for _, b := range data {
		switch {
		case b == 0x00:
			closeLiteral()
			out.WriteString("C-Space ")
		case b >= 0x01 && b <= 0x1a:
			closeLiteral()
			letter := 'a' + rune(b-1)
			out.WriteString(fmt.Sprintf("C-%c ", letter))
		case b == 0x1b:
			closeLiteral()
			out.WriteString("Escape ")
		case b == 0x7f:
			closeLiteral()
			out.WriteString("BSpace ")
		case b == '\'':
			openLiteral()
			literal.WriteString(`'\''`)
		case b == 0x20:
			closeLiteral()
			out.WriteString("Space ")
		case b >= 0x21 && b <= 0x7e:
			openLiteral()
			literal.WriteByte(b)
		default:
			closeLiteral()
			out.WriteString(fmt.Sprintf("0x%02x ", b))
		}
	}
	closeLiteral()

	return strings.TrimRight(out.String(), " ")
}
