package terminal

import (
	"github.com/ellery/par-term/internal/keybinding"
	"github.com/micro-editor/tcell/v2"
)

// defaultKeyRegistry builds the keybinding.Registry backing Panel's input
// path: the handful of shortcuts the panel intercepts before anything
// reaches the PTY. Plain character/named-key forwarding does not go
// through the registry at all, it falls straight to keybinding.Emit.
func defaultKeyRegistry() *keybinding.Registry {
	b := keybinding.NewBuilder()
	b.Add("Ctrl+\\", "quick-command-mode")
	b.Add("Shift+PageUp", "scroll-page-up")
	b.Add("Shift+PageDown", "scroll-page-down")
	b.Add("Ctrl+C", "copy-selection-or-interrupt")
	keybinding.LogDroppedBindings(b.Errors())
	return b.Build()
}

// ctrlLetterKeys maps tcell's dedicated Ctrl+<letter> key constants to the
// plain letter a KeyKindCharacter combo carries, since tcell reports those
// as distinct Key values rather than a rune with ModCtrl set.
var ctrlLetterKeys = map[tcell.Key]rune{
	tcell.KeyCtrlA: 'A', tcell.KeyCtrlB: 'B', tcell.KeyCtrlC: 'C', tcell.KeyCtrlD: 'D',
	tcell.KeyCtrlE: 'E', tcell.KeyCtrlF: 'F', tcell.KeyCtrlG: 'G',
	tcell.KeyCtrlK: 'K', tcell.KeyCtrlL: 'L', tcell.KeyCtrlN: 'N', tcell.KeyCtrlO: 'O',
	tcell.KeyCtrlP: 'P', tcell.KeyCtrlQ: 'Q', tcell.KeyCtrlR: 'R', tcell.KeyCtrlS: 'S',
	tcell.KeyCtrlT: 'T', tcell.KeyCtrlU: 'U', tcell.KeyCtrlV: 'V', tcell.KeyCtrlW: 'W',
	tcell.KeyCtrlX: 'X', tcell.KeyCtrlY: 'Y', tcell.KeyCtrlZ: 'Z',
}

var namedTcellKeys = map[tcell.Key]keybinding.NamedKey{
	tcell.KeyEnter:     keybinding.NamedEnter,
	tcell.KeyTab:       keybinding.NamedTab,
	tcell.KeyBackspace: keybinding.NamedBackspace,
	tcell.KeyBackspace2: keybinding.NamedBackspace,
	tcell.KeyEscape:    keybinding.NamedEscape,
	tcell.KeyUp:        keybinding.NamedArrowUp,
	tcell.KeyDown:      keybinding.NamedArrowDown,
	tcell.KeyRight:     keybinding.NamedArrowRight,
	tcell.KeyLeft:      keybinding.NamedArrowLeft,
	tcell.KeyHome:      keybinding.NamedHome,
	tcell.KeyEnd:       keybinding.NamedEnd,
	tcell.KeyPgUp:      keybinding.NamedPageUp,
	tcell.KeyPgDn:      keybinding.NamedPageDown,
	tcell.KeyInsert:    keybinding.NamedInsert,
	tcell.KeyDelete:    keybinding.NamedDelete,
	tcell.KeyF1:        keybinding.NamedF1,
	tcell.KeyF2:        keybinding.NamedF2,
	tcell.KeyF3:        keybinding.NamedF3,
	tcell.KeyF4:        keybinding.NamedF4,
	tcell.KeyF5:        keybinding.NamedF5,
	tcell.KeyF6:        keybinding.NamedF6,
	tcell.KeyF7:        keybinding.NamedF7,
	tcell.KeyF8:        keybinding.NamedF8,
	tcell.KeyF9:        keybinding.NamedF9,
	tcell.KeyF10:       keybinding.NamedF10,
	tcell.KeyF11:       keybinding.NamedF11,
	tcell.KeyF12:       keybinding.NamedF12,
}

// eventToCombo translates a tcell key event into the keybinding package's
// Event shape. ok is false for keys the grammar has no representation for
// (e.g. Ctrl+], Ctrl+_), which callers handle through the legacy keyToBytes
// path instead. Ctrl+\ is translated to a Ctrl+'\' character combo so the
// registry can bind it.
func eventToCombo(ev *tcell.EventKey) (keybinding.Event, bool) {
	mods := keybinding.Modifiers{
		Shift: ev.Modifiers()&tcell.ModShift != 0,
		Alt:   ev.Modifiers()&tcell.ModAlt != 0,
		Ctrl:  ev.Modifiers()&tcell.ModCtrl != 0,
		Super: ev.Modifiers()&tcell.ModMeta != 0,
	}

	if ev.Key() == tcell.KeyCtrlBackslash {
		mods.Ctrl = true
		return keybinding.Event{Modifiers: mods, Key: keybinding.ParsedKey{Kind: keybinding.KeyKindCharacter, Character: '\\'}}, true
	}

	if letter, ok := ctrlLetterKeys[ev.Key()]; ok {
		mods.Ctrl = true
		return keybinding.Event{Modifiers: mods, Key: keybinding.ParsedKey{Kind: keybinding.KeyKindCharacter, Character: letter}}, true
	}

	if named, ok := namedTcellKeys[ev.Key()]; ok {
		return keybinding.Event{Modifiers: mods, Key: keybinding.ParsedKey{Kind: keybinding.KeyKindNamed, Named: named}}, true
	}

	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if mods.Ctrl && r >= 'a' && r <= 'z' {
			r = r - 'a' + 'A'
		}
		return keybinding.Event{Modifiers: mods, Key: keybinding.ParsedKey{Kind: keybinding.KeyKindCharacter, Character: r}}, true
	}

	return keybinding.Event{}, false
}
