package tmux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandFactories(t *testing.T) {
	assert.Equal(t, "tmux -CC new-session\n", NewCommand(""))
	assert.Equal(t, "tmux -CC new-session -s 'dev'\n", NewCommand("dev"))
	assert.Equal(t, "tmux -CC attach -t 'dev'\n", AttachCommand("dev"))
	assert.Equal(t, "tmux -CC new-session -A -s 'dev'\n", CreateOrAttachCommand("dev"))
}

func TestSendKeysFormatting(t *testing.T) {
	assert.Equal(t, "send-keys -t %1 'hello'\n", FormatSendKeys("1", EscapeKeysForTmux([]byte("hello"))))
	assert.Equal(t, "send-keys -t %1 -l 'pasted text'\n", FormatSendLiteral("1", "pasted text"))
}
