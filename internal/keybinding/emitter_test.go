package keybinding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtrlLetterByteEmission(t *testing.T) {
	for l := byte('A'); l <= 'Z'; l++ {
		combo := KeyCombo{Modifiers: Modifiers{Ctrl: true}, Key: ParsedKey{Kind: KeyKindCharacter, Character: rune(l)}}
		out, err := Emit(combo)
		require.NoError(t, err)
		assert.Equal(t, []byte{l - 'A' + 1}, out)
	}
}

func TestAltPrefixLaw(t *testing.T) {
	base := KeyCombo{Key: ParsedKey{Kind: KeyKindNamed, Named: NamedF5}}
	withAlt := base
	withAlt.Modifiers.Alt = true

	baseBytes, err := Emit(base)
	require.NoError(t, err)
	altBytes, err := Emit(withAlt)
	require.NoError(t, err)

	assert.Equal(t, append([]byte{0x1b}, baseBytes...), altBytes)
}

func TestFunctionKeyEmission(t *testing.T) {
	cases := map[NamedKey][]byte{
		NamedF1:  {0x1b, 'O', 'P'},
		NamedF2:  {0x1b, 'O', 'Q'},
		NamedF3:  {0x1b, 'O', 'R'},
		NamedF4:  {0x1b, 'O', 'S'},
		NamedF5:  {0x1b, '[', '1', '5', '~'},
		NamedF6:  {0x1b, '[', '1', '7', '~'},
		NamedF7:  {0x1b, '[', '1', '8', '~'},
		NamedF8:  {0x1b, '[', '1', '9', '~'},
		NamedF9:  {0x1b, '[', '2', '0', '~'},
		NamedF10: {0x1b, '[', '2', '1', '~'},
		NamedF11: {0x1b, '[', '2', '3', '~'},
		NamedF12: {0x1b, '[', '2', '4', '~'},
	}
	for named, want := range cases {
		combo := KeyCombo{Key: ParsedKey{Kind: KeyKindNamed, Named: named}}
		out, err := Emit(combo)
		require.NoError(t, err)
		assert.Equal(t, want, out)
	}
}

func TestNavigationKeyEmission(t *testing.T) {
	cases := map[NamedKey][]byte{
		NamedHome:     {0x1b, '[', 'H'},
		NamedEnd:      {0x1b, '[', 'F'},
		NamedPageUp:   {0x1b, '[', '5', '~'},
		NamedPageDown: {0x1b, '[', '6', '~'},
		NamedInsert:   {0x1b, '[', '2', '~'},
		NamedDelete:   {0x1b, '[', '3', '~'},
	}
	for named, want := range cases {
		combo := KeyCombo{Key: ParsedKey{Kind: KeyKindNamed, Named: named}}
		out, err := Emit(combo)
		require.NoError(t, err)
		assert.Equal(t, want, out)
	}
}

func TestPhysicalKeyHasNoByteRepresentation(t *testing.T) {
	combo := KeyCombo{Key: ParsedKey{Kind: KeyKindPhysical, Physical: PhysicalKeyA}}
	_, err := Emit(combo)
	assert.ErrorIs(t, err, ErrNoByteRepresentation)
}

func TestParseKeySequence(t *testing.T) {
	seqs, err := ParseKeySequence("Up Up Down Down Left Right Left Right B A")
	require.NoError(t, err)
	require.Len(t, seqs, 10)
	assert.Equal(t, []byte{0x1b, '[', 'A'}, seqs[0])
	assert.Equal(t, []byte{'B'}, seqs[8])
	assert.Equal(t, []byte{'A'}, seqs[9])
}
