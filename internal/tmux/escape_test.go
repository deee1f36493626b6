package tmux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeKeysForTmuxPrintable(t *testing.T) {
	assert.Equal(t, "'hello'", EscapeKeysForTmux([]byte("hello")))
}

func TestEscapeKeysForTmuxControlChar(t *testing.T) {
	assert.Equal(t, "C-c", EscapeKeysForTmux([]byte{0x03}))
}

func TestEscapeKeysForTmuxEscape(t *testing.T) {
	assert.Equal(t, "Escape", EscapeKeysForTmux([]byte{0x1b}))
}

func TestEscapeKeysForTmuxBackspace(t *testing.T) {
	assert.Equal(t, "BSpace", EscapeKeysForTmux([]byte{0x7f}))
}

func TestEscapeKeysForTmuxSpace(t *testing.T) {
	assert.Equal(t, "Space", EscapeKeysForTmux([]byte{0x20}))
}

func TestEscapeKeysForTmuxApostrophe(t *testing.T) {
	assert.Equal(t, `'It'\''s'`, EscapeKeysForTmux([]byte("It's")))
}

func TestEscapeKeysForTmuxMixedRun(t *testing.T) {
	// Printable text followed by a control character breaks the literal run.
	assert.Equal(t, "'hi' C-c", EscapeKeysForTmux([]byte{'h', 'i', 0x03}))
}

func TestEscapeKeysForTmuxNonAsciiByte(t *testing.T) {
	assert.Equal(t, "0xff", EscapeKeysForTmux([]byte{0xff}))
}
