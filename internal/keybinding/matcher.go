package keybinding

import "runtime"

// Event is the normalized input this package matches against registered
// combos. Callers translate their windowing/terminal library's key event
// into this shape once per event.
type Event struct {
	Modifiers Modifiers
	Key       ParsedKey
}

// Matches reports whether ev satisfies combo, resolving CmdOrCtrl for the
// current platform: on macOS it means Super, elsewhere it means Ctrl.
func Matches(ev Event, combo KeyCombo) bool {
	if !keyEqual(ev.Key, combo.Key) {
		return false
	}
	return modifiersMatch(ev.Modifiers, combo.Modifiers)
}

func keyEqual(a, b ParsedKey) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KeyKindCharacter:
		return normalizeChar(a.Character) == normalizeChar(b.Character)
	case KeyKindNamed:
		return a.Named == b.Named
	case KeyKindPhysical:
		return a.Physical == b.Physical
	}
	return false
}

func modifiersMatch(event Modifiers, combo Modifiers) bool {
	expectedCtrl, expectedSuper := resolveCmdOrCtrl(combo)
	return event.Ctrl == expectedCtrl &&
		event.Alt == combo.Alt &&
		event.Shift == combo.Shift &&
		event.Super == expectedSuper
}

// resolveCmdOrCtrl returns the (ctrl, super) pair a combo actually requires
// once CmdOrCtrl is resolved for the running platform.
func resolveCmdOrCtrl(combo Modifiers) (ctrl, super bool) {
	if !combo.CmdOrCtrl {
		return combo.Ctrl, combo.Super
	}
	if runtime.GOOS == "darwin" {
		return combo.Ctrl, true
	}
	return true, combo.Super
}
