package keybinding

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrNoByteRepresentation is returned by Emit for physical-key combos,
// which have no terminal escape-sequence representation.
var ErrNoByteRepresentation = fmt.Errorf("keybinding: physical-key combos have no byte representation")

var namedKeyBytes = map[NamedKey][]byte{
	NamedEnter:      {'\r'},
	NamedTab:        {'\t'},
	NamedBackspace:  {0x7f},
	NamedEscape:     {0x1b},
	NamedSpace:      {0x20},
	NamedArrowUp:    {0x1b, '[', 'A'},
	NamedArrowDown:  {0x1b, '[', 'B'},
	NamedArrowRight: {0x1b, '[', 'C'},
	NamedArrowLeft:  {0x1b, '[', 'D'},
	NamedHome:       {0x1b, '[', 'H'},
	NamedEnd:        {0x1b, '[', 'F'},
	NamedPageUp:     {0x1b, '[', '5', '~'},
	NamedPageDown:   {0x1b, '[', '6', '~'},
	NamedInsert:     {0x1b, '[', '2', '~'},
	NamedDelete:     {0x1b, '[', '3', '~'},
	// F1-F4: SS3 (ESC O <letter>).
	NamedF1: {0x1b, 'O', 'P'},
	NamedF2: {0x1b, 'O', 'Q'},
	NamedF3: {0x1b, 'O', 'R'},
	NamedF4: {0x1b, 'O', 'S'},
	// F5-F12: CSI.
	NamedF5:  {0x1b, '[', '1', '5', '~'},
	NamedF6:  {0x1b, '[', '1', '7', '~'},
	NamedF7:  {0x1b, '[', '1', '8', '~'},
	NamedF8:  {0x1b, '[', '1', '9', '~'},
	NamedF9:  {0x1b, '[', '2', '0', '~'},
	NamedF10: {0x1b, '[', '2', '1', '~'},
	NamedF11: {0x1b, '[', '2', '3', '~'},
	NamedF12: {0x1b, '[', '2', '4', '~'},
}

// Emit produces the terminal escape sequence bytes for combo. Bare
// Ctrl+letter A-Z maps to 0x01..0x1A. Alt prepends 0x1b to the base
// sequence (including Alt+Ctrl+letter). Physical-key combos return
// ErrNoByteRepresentation.
func Emit(combo KeyCombo) ([]byte, error) {
	if combo.Key.Kind == KeyKindPhysical {
		return nil, ErrNoByteRepresentation
	}

	base, err := emitBase(combo)
	if err != nil {
		return nil, err
	}

	if combo.Modifiers.Alt {
		out := make([]byte, 0, len(base)+1)
		out = append(out, 0x1b)
		out = append(out, base...)
		return out, nil
	}
	return base, nil
}

func emitBase(combo KeyCombo) ([]byte, error) {
	switch combo.Key.Kind {
	case KeyKindNamed:
		if b, ok := namedKeyBytes[combo.Key.Named]; ok {
			return append([]byte(nil), b...), nil
		}
		return nil, fmt.Errorf("keybinding: no byte representation for named key %v", combo.Key.Named)

	case KeyKindCharacter:
		r := combo.Key.Character
		if combo.Modifiers.Ctrl && r >= 'A' && r <= 'Z' {
			return []byte{byte(r - 'A' + 1)}, nil
		}
		if r < 128 {
			return []byte{byte(r)}, nil
		}
		buf := make([]byte, 4)
		n := utf8.EncodeRune(buf, r)
		return buf[:n], nil
	}
	return nil, fmt.Errorf("keybinding: unsupported key kind")
}

// ParseKeySequence tokenizes a whitespace-separated sequence of key-combo
// strings (e.g. "Up Up Down Down Left Right Left Right B A") and emits the
// byte sequence for each. A token that fails to parse or emit aborts with
// that error.
func ParseKeySequence(seq string) ([][]byte, error) {
	tokens := strings.Fields(seq)
	out := make([][]byte, 0, len(tokens))
	for _, tok := range tokens {
		combo, err := ParseKeyCombo(tok)
		if err != nil {
			return nil, err
		}
		b, err := Emit(combo)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
