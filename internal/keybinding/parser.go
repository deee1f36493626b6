package keybinding

import (
	"fmt"
	"strings"
)

var namedKeys = map[string]NamedKey{
	"F1": NamedF1, "F2": NamedF2, "F3": NamedF3, "F4": NamedF4,
	"F5": NamedF5, "F6": NamedF6, "F7": NamedF7, "F8": NamedF8,
	"F9": NamedF9, "F10": NamedF10, "F11": NamedF11, "F12": NamedF12,
	"ENTER": NamedEnter, "RETURN": NamedEnter,
	"ESCAPE": NamedEscape, "ESC": NamedEscape,
	"SPACE": NamedSpace,
	"TAB":   NamedTab,
	"BACKSPACE": NamedBackspace,
	"DELETE": NamedDelete, "DEL": NamedDelete,
	"INSERT": NamedInsert, "INS": NamedInsert,
	"HOME": NamedHome,
	"END":  NamedEnd,
	"PAGEUP": NamedPageUp, "PGUP": NamedPageUp,
	"PAGEDOWN": NamedPageDown, "PGDN": NamedPageDown,
	"ARROWUP": NamedArrowUp, "UP": NamedArrowUp,
	"ARROWDOWN": NamedArrowDown, "DOWN": NamedArrowDown,
	"ARROWLEFT": NamedArrowLeft, "LEFT": NamedArrowLeft,
	"ARROWRIGHT": NamedArrowRight, "RIGHT": NamedArrowRight,
}

var physicalKeys = map[string]PhysicalKey{
	"KEYA": PhysicalKeyA, "KEYB": PhysicalKeyB, "KEYC": PhysicalKeyC,
	"KEYD": PhysicalKeyD, "KEYE": PhysicalKeyE, "KEYF": PhysicalKeyF,
	"KEYG": PhysicalKeyG, "KEYH": PhysicalKeyH, "KEYI": PhysicalKeyI,
	"KEYJ": PhysicalKeyJ, "KEYK": PhysicalKeyK, "KEYL": PhysicalKeyL,
	"KEYM": PhysicalKeyM, "KEYN": PhysicalKeyN, "KEYO": PhysicalKeyO,
	"KEYP": PhysicalKeyP, "KEYQ": PhysicalKeyQ, "KEYR": PhysicalKeyR,
	"KEYS": PhysicalKeyS, "KEYT": PhysicalKeyT, "KEYU": PhysicalKeyU,
	"KEYV": PhysicalKeyV, "KEYW": PhysicalKeyW, "KEYX": PhysicalKeyX,
	"KEYY": PhysicalKeyY, "KEYZ": PhysicalKeyZ,
	"DIGIT0": PhysicalDigit0, "DIGIT1": PhysicalDigit1, "DIGIT2": PhysicalDigit2,
	"DIGIT3": PhysicalDigit3, "DIGIT4": PhysicalDigit4, "DIGIT5": PhysicalDigit5,
	"DIGIT6": PhysicalDigit6, "DIGIT7": PhysicalDigit7, "DIGIT8": PhysicalDigit8,
	"DIGIT9":     PhysicalDigit9,
	"ARROWUP":    PhysicalArrowUp,
	"ARROWDOWN":  PhysicalArrowDown,
	"ARROWLEFT":  PhysicalArrowLeft,
	"ARROWRIGHT": PhysicalArrowRight,
}

// namedKeyNames is the inverse of namedKeys restricted to one canonical
// spelling per key, used by Format.
var namedKeyNames = map[NamedKey]string{
	NamedF1: "F1", NamedF2: "F2", NamedF3: "F3", NamedF4: "F4",
	NamedF5: "F5", NamedF6: "F6", NamedF7: "F7", NamedF8: "F8",
	NamedF9: "F9", NamedF10: "F10", NamedF11: "F11", NamedF12: "F12",
	NamedEnter: "Enter", NamedEscape: "Escape", NamedSpace: "Space",
	NamedTab: "Tab", NamedBackspace: "Backspace", NamedDelete: "Delete",
	NamedInsert: "Insert", NamedHome: "Home", NamedEnd: "End",
	NamedPageUp: "PageUp", NamedPageDown: "PageDown",
	NamedArrowUp: "ArrowUp", NamedArrowDown: "ArrowDown",
	NamedArrowLeft: "ArrowLeft", NamedArrowRight: "ArrowRight",
}

var physicalKeyNames = map[PhysicalKey]string{
	PhysicalKeyA: "KeyA", PhysicalKeyB: "KeyB", PhysicalKeyC: "KeyC",
	PhysicalKeyD: "KeyD", PhysicalKeyE: "KeyE", PhysicalKeyF: "KeyF",
	PhysicalKeyG: "KeyG", PhysicalKeyH: "KeyH", PhysicalKeyI: "KeyI",
	PhysicalKeyJ: "KeyJ", PhysicalKeyK: "KeyK", PhysicalKeyL: "KeyL",
	PhysicalKeyM: "KeyM", PhysicalKeyN: "KeyN", PhysicalKeyO: "KeyO",
	PhysicalKeyP: "KeyP", PhysicalKeyQ: "KeyQ", PhysicalKeyR: "KeyR",
	PhysicalKeyS: "KeyS", PhysicalKeyT: "KeyT", PhysicalKeyU: "KeyU",
	PhysicalKeyV: "KeyV", PhysicalKeyW: "KeyW", PhysicalKeyX: "KeyX",
	PhysicalKeyY: "KeyY", PhysicalKeyZ: "KeyZ",
	PhysicalDigit0: "Digit0", PhysicalDigit1: "Digit1", PhysicalDigit2: "Digit2",
	PhysicalDigit3: "Digit3", PhysicalDigit4: "Digit4", PhysicalDigit5: "Digit5",
	PhysicalDigit6: "Digit6", PhysicalDigit7: "Digit7", PhysicalDigit8: "Digit8",
	PhysicalDigit9:     "Digit9",
	PhysicalArrowUp:    "ArrowUp",
	PhysicalArrowDown:  "ArrowDown",
	PhysicalArrowLeft:  "ArrowLeft",
	PhysicalArrowRight: "ArrowRight",
}

// ParseKeyCombo parses a single key-combo string such as "CmdOrCtrl+Shift+B"
// or "Ctrl+[KeyA]". Empty strings, lone modifiers, and modifier-terminated
// strings are parse errors.
func ParseKeyCombo(s string) (KeyCombo, error) {
	if strings.TrimSpace(s) == "" {
		return KeyCombo{}, fmt.Errorf("keybinding: empty combo")
	}
	parts := strings.Split(s, "+")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	if len(parts) == 0 {
		return KeyCombo{}, fmt.Errorf("keybinding: empty combo")
	}

	var mods Modifiers
	last := parts[len(parts)-1]
	if last == "" {
		return KeyCombo{}, fmt.Errorf("keybinding: modifier-terminated combo %q", s)
	}

	for _, p := range parts[:len(parts)-1] {
		if !applyModifier(&mods, p) {
			return KeyCombo{}, fmt.Errorf("keybinding: unknown modifier %q in %q", p, s)
		}
	}

	// The last token might itself be a modifier name (lone-modifier error)
	// unless it can also be parsed as a key.
	key, err := parseKey(last)
	if err != nil {
		if applyModifier(&mods, last) {
			return KeyCombo{}, fmt.Errorf("keybinding: combo %q has no key, only modifiers", s)
		}
		return KeyCombo{}, err
	}

	return KeyCombo{Modifiers: mods, Key: key}, nil
}

func applyModifier(mods *Modifiers, token string) bool {
	switch strings.ToUpper(token) {
	case "CTRL", "CONTROL":
		mods.Ctrl = true
	case "ALT", "OPTION":
		mods.Alt = true
	case "SHIFT":
		mods.Shift = true
	case "SUPER", "CMD", "COMMAND", "META", "WIN":
		mods.Super = true
	case "CMDORCTRL":
		mods.CmdOrCtrl = true
	default:
		return false
	}
	return true
}

func parseKey(token string) (ParsedKey, error) {
	if token == "" {
		return ParsedKey{}, fmt.Errorf("keybinding: empty key name")
	}

	if strings.HasPrefix(token, "[") && strings.HasSuffix(token, "]") {
		inner := strings.ToUpper(token[1 : len(token)-1])
		if pk, ok := physicalKeys[inner]; ok {
			return ParsedKey{Kind: KeyKindPhysical, Physical: pk}, nil
		}
		return ParsedKey{}, fmt.Errorf("keybinding: unknown physical key %q", token)
	}

	if nk, ok := namedKeys[strings.ToUpper(token)]; ok {
		return ParsedKey{Kind: KeyKindNamed, Named: nk}, nil
	}

	runes := []rune(token)
	if len(runes) == 1 {
		return ParsedKey{Kind: KeyKindCharacter, Character: normalizeChar(runes[0])}, nil
	}

	return ParsedKey{}, fmt.Errorf("keybinding: unknown key name %q", token)
}

// Format renders a KeyCombo back to its canonical string form. For every
// parsable combo c, ParseKeyCombo(Format(c)) == c.
func Format(c KeyCombo) string {
	var parts []string
	if c.Modifiers.CmdOrCtrl {
		parts = append(parts, "CmdOrCtrl")
	}
	if c.Modifiers.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if c.Modifiers.Alt {
		parts = append(parts, "Alt")
	}
	if c.Modifiers.Shift {
		parts = append(parts, "Shift")
	}
	if c.Modifiers.Super {
		parts = append(parts, "Super")
	}

	switch c.Key.Kind {
	case KeyKindCharacter:
		parts = append(parts, string(c.Key.Character))
	case KeyKindNamed:
		parts = append(parts, namedKeyNames[c.Key.Named])
	case KeyKindPhysical:
		parts = append(parts, "["+physicalKeyNames[c.Key.Physical]+"]")
	}

	return strings.Join(parts, "+")
}
