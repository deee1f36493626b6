package keybinding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	b := NewBuilder()
	b.Add("Ctrl+S", "file.save")
	b.Add("CmdOrCtrl+Q", "app.quit")
	require.Empty(t, b.Errors())

	r := b.Build()

	action, ok := r.Lookup(Event{
		Modifiers: Modifiers{Ctrl: true},
		Key:       ParsedKey{Kind: KeyKindCharacter, Character: 'S'},
	})
	require.True(t, ok)
	assert.Equal(t, "file.save", action)

	_, ok = r.Lookup(Event{Key: ParsedKey{Kind: KeyKindCharacter, Character: 'Z'}})
	assert.False(t, ok)
}

func TestRegistryBuildKeepsLastDuplicate(t *testing.T) {
	b := NewBuilder()
	b.Add("Ctrl+S", "file.save")
	b.Add("Ctrl+S", "file.save_as")

	r := b.Build()
	action, ok := r.Lookup(Event{
		Modifiers: Modifiers{Ctrl: true},
		Key:       ParsedKey{Kind: KeyKindCharacter, Character: 'S'},
	})
	require.True(t, ok)
	assert.Equal(t, "file.save_as", action)
	assert.Len(t, r.Bindings(), 1)
}

func TestBuilderDropsInvalidBindings(t *testing.T) {
	b := NewBuilder()
	b.Add("Ctrl+S", "file.save")
	b.Add("Ctrl+", "bogus")

	require.Len(t, b.Errors(), 1)
	r := b.Build()
	assert.Len(t, r.Bindings(), 1)
}
