package keybinding

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdOrCtrlResolution(t *testing.T) {
	combo, err := ParseKeyCombo("CmdOrCtrl+Shift+B")
	require.NoError(t, err)

	ctrlShift := Event{
		Modifiers: Modifiers{Ctrl: true, Shift: true},
		Key:       ParsedKey{Kind: KeyKindCharacter, Character: 'B'},
	}
	superShift := Event{
		Modifiers: Modifiers{Super: true, Shift: true},
		Key:       ParsedKey{Kind: KeyKindCharacter, Character: 'B'},
	}

	if runtime.GOOS == "darwin" {
		assert.True(t, Matches(superShift, combo))
		assert.False(t, Matches(ctrlShift, combo))
	} else {
		assert.True(t, Matches(ctrlShift, combo))
		assert.False(t, Matches(superShift, combo))
	}
}

func TestCharacterMatchingCaseInsensitive(t *testing.T) {
	combo, err := ParseKeyCombo("Ctrl+A")
	require.NoError(t, err)

	lower := Event{Modifiers: Modifiers{Ctrl: true}, Key: ParsedKey{Kind: KeyKindCharacter, Character: 'a'}}
	upperEv := Event{Modifiers: Modifiers{Ctrl: true}, Key: ParsedKey{Kind: KeyKindCharacter, Character: 'A'}}
	wrong := Event{Modifiers: Modifiers{Ctrl: true}, Key: ParsedKey{Kind: KeyKindCharacter, Character: 'B'}}

	assert.True(t, Matches(lower, combo))
	assert.True(t, Matches(upperEv, combo))
	assert.False(t, Matches(wrong, combo))
}

func TestNamedKeyMatching(t *testing.T) {
	combo, err := ParseKeyCombo("F5")
	require.NoError(t, err)

	match := Event{Key: ParsedKey{Kind: KeyKindNamed, Named: NamedF5}}
	mismatch := Event{Key: ParsedKey{Kind: KeyKindNamed, Named: NamedF6}}

	assert.True(t, Matches(match, combo))
	assert.False(t, Matches(mismatch, combo))
}

func TestModifierMismatch(t *testing.T) {
	combo, err := ParseKeyCombo("Ctrl+Shift+B")
	require.NoError(t, err)

	missingShift := Event{Modifiers: Modifiers{Ctrl: true}, Key: ParsedKey{Kind: KeyKindCharacter, Character: 'B'}}
	extraAlt := Event{Modifiers: Modifiers{Ctrl: true, Alt: true, Shift: true}, Key: ParsedKey{Kind: KeyKindCharacter, Character: 'B'}}

	assert.False(t, Matches(missingShift, combo))
	assert.False(t, Matches(extraAlt, combo))
}
