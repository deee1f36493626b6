// Package keybinding implements the parser, registry, matcher and byte
// emitter for par-term's portable key-combo grammar:
//
//	key ::= modifier ("+" modifier)* "+" key_name
//
// Modifiers are case-insensitive: Ctrl|Control, Alt|Option, Shift,
// Super|Cmd|Command|Meta|Win, CmdOrCtrl. Key names are a single unicode
// character (normalized uppercase), a named key (F1-F12, Enter, Escape,
// Space, Tab, Backspace, Delete, Insert, Home, End, PageUp, PageDown,
// arrows, ...), or a bracketed physical key code (e.g. "[KeyA]") that
// matches by keyboard position rather than produced character.
package keybinding

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Modifiers is the 5-bit modifier set a KeyCombo carries.
type Modifiers struct {
	Ctrl       bool
	Alt        bool
	Shift      bool
	Super      bool
	CmdOrCtrl  bool
}

// KeyKind distinguishes the three key payload forms the grammar accepts.
type KeyKind int

const (
	KeyKindNamed KeyKind = iota
	KeyKindCharacter
	KeyKindPhysical
)

// NamedKey enumerates the named keys recognized by the grammar.
type NamedKey int

const (
	NamedUnknown NamedKey = iota
	NamedF1
	NamedF2
	NamedF3
	NamedF4
	NamedF5
	NamedF6
	NamedF7
	NamedF8
	NamedF9
	NamedF10
	NamedF11
	NamedF12
	NamedEnter
	NamedEscape
	NamedSpace
	NamedTab
	NamedBackspace
	NamedDelete
	NamedInsert
	NamedHome
	NamedEnd
	NamedPageUp
	NamedPageDown
	NamedArrowUp
	NamedArrowDown
	NamedArrowLeft
	NamedArrowRight
)

// PhysicalKey enumerates physical key codes matched by keyboard position,
// used for the bracketed "[KeyA]" grammar form.
type PhysicalKey int

const (
	PhysicalUnknown PhysicalKey = iota
	PhysicalKeyA
	PhysicalKeyB
	PhysicalKeyC
	PhysicalKeyD
	PhysicalKeyE
	PhysicalKeyF
	PhysicalKeyG
	PhysicalKeyH
	PhysicalKeyI
	PhysicalKeyJ
	PhysicalKeyK
	PhysicalKeyL
	PhysicalKeyM
	PhysicalKeyN
	PhysicalKeyO
	PhysicalKeyP
	PhysicalKeyQ
	PhysicalKeyR
	PhysicalKeyS
	PhysicalKeyT
	PhysicalKeyU
	PhysicalKeyV
	PhysicalKeyW
	PhysicalKeyX
	PhysicalKeyY
	PhysicalKeyZ
	PhysicalDigit0
	PhysicalDigit1
	PhysicalDigit2
	PhysicalDigit3
	PhysicalDigit4
	PhysicalDigit5
	PhysicalDigit6
	PhysicalDigit7
	PhysicalDigit8
	PhysicalDigit9
	PhysicalArrowUp
	PhysicalArrowDown
	PhysicalArrowLeft
	PhysicalArrowRight
)

// ParsedKey is the key payload of a KeyCombo: exactly one of Named,
// Character or Physical is meaningful, selected by Kind.
type ParsedKey struct {
	Kind      KeyKind
	Named     NamedKey
	Character rune
	Physical  PhysicalKey
}

// KeyCombo is a fully parsed modifier+key combination. Two combos are
// equal iff their Modifiers match after CmdOrCtrl resolution for the
// current platform and their Key payloads are equal.
type KeyCombo struct {
	Modifiers Modifiers
	Key       ParsedKey
}

var upper = cases.Upper(language.Und)

// normalizeChar applies the grammar's "single unicode character,
// normalized uppercase" rule. Plain strings.ToUpper mishandles a number of
// multi-byte-casing Unicode letters; cases.Upper (golang.org/x/text) is
// the idiomatic answer to that, so it is used here instead of a
// byte-level ASCII shortcut.
func normalizeChar(r rune) rune {
	s := upper.String(string(r))
	for _, rr := range s {
		return rr
	}
	return r
}
