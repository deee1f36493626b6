package keybinding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyComboRoundTrip(t *testing.T) {
	cases := []string{
		"Ctrl+A",
		"CmdOrCtrl+Shift+B",
		"Alt+F5",
		"Ctrl+Alt+Shift+Super+Z",
		"F12",
		"Enter",
		"[KeyA]",
		"Ctrl+[ArrowUp]",
	}
	for _, s := range cases {
		t.Run(s, func(t *testing.T) {
			combo, err := ParseKeyCombo(s)
			require.NoError(t, err)
			again, err := ParseKeyCombo(Format(combo))
			require.NoError(t, err)
			assert.Equal(t, combo, again)
		})
	}
}

func TestParseKeyComboErrors(t *testing.T) {
	cases := []string{"", "Ctrl", "Ctrl+", "Ctrl+Shift+", "Alt+Nonsense"}
	for _, s := range cases {
		t.Run(s, func(t *testing.T) {
			_, err := ParseKeyCombo(s)
			assert.Error(t, err)
		})
	}
}

func TestParseKeyComboCaseInsensitiveModifiers(t *testing.T) {
	combo, err := ParseKeyCombo("control+option+shift+win+b")
	require.NoError(t, err)
	assert.True(t, combo.Modifiers.Ctrl)
	assert.True(t, combo.Modifiers.Alt)
	assert.True(t, combo.Modifiers.Shift)
	assert.True(t, combo.Modifiers.Super)
	assert.Equal(t, KeyKindCharacter, combo.Key.Kind)
	assert.Equal(t, 'B', combo.Key.Character)
}

func TestParseKeyComboNamedAliases(t *testing.T) {
	for _, pair := range [][2]string{
		{"Return", "Enter"},
		{"Esc", "Escape"},
		{"Del", "Delete"},
		{"Ins", "Insert"},
		{"PgUp", "PageUp"},
		{"PgDn", "PageDown"},
		{"Up", "ArrowUp"},
	} {
		a, err := ParseKeyCombo(pair[0])
		require.NoError(t, err)
		b, err := ParseKeyCombo(pair[1])
		require.NoError(t, err)
		assert.Equal(t, b, a)
	}
}
