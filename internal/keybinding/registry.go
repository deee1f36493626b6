package keybinding

import "log"

// Registry maps KeyCombo values to action names. It is built once at
// config load and swapped, never mutated, on reload — the keybinding
// registry is immutable shared state per the concurrency model.
type Registry struct {
	bindings []binding
}

type binding struct {
	combo  KeyCombo
	action string
}

// Builder accumulates parsed bindings, keeping the last one seen for any
// duplicate combo, matching the registry build semantics ("duplicates
// within a single registry build are not defined and should be flagged by
// the caller; the build itself keeps the last one seen").
type Builder struct {
	bindings []binding
	errors   []error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add parses comboStr and binds it to action. Parse errors are recorded
// and the binding is dropped; Errors() returns them after Build.
func (b *Builder) Add(comboStr, action string) {
	combo, err := ParseKeyCombo(comboStr)
	if err != nil {
		b.errors = append(b.errors, err)
		return
	}
	b.bindings = append(b.bindings, binding{combo: combo, action: action})
}

// Errors returns the parse errors accumulated by Add calls so far.
func (b *Builder) Errors() []error {
	return b.errors
}

// Build finalizes the registry. Earlier bindings for a combo that also
// appears later are shadowed by the later one, matching "the build itself
// keeps the last one seen"; no error is raised for that case since it is
// explicitly left undefined for callers to flag themselves if they care.
func (b *Builder) Build() *Registry {
	seen := make(map[comboKey]int, len(b.bindings))
	result := make([]binding, 0, len(b.bindings))
	for _, bd := range b.bindings {
		k := keyFor(bd.combo)
		if idx, ok := seen[k]; ok {
			result[idx] = bd
			continue
		}
		seen[k] = len(result)
		result = append(result, bd)
	}
	return &Registry{bindings: result}
}

type comboKey struct {
	mods Modifiers
	kind KeyKind
	n    NamedKey
	c    rune
	p    PhysicalKey
}

func keyFor(c KeyCombo) comboKey {
	return comboKey{
		mods: c.Modifiers,
		kind: c.Key.Kind,
		n:    c.Key.Named,
		c:    normalizeChar(c.Key.Character),
		p:    c.Key.Physical,
	}
}

// Lookup returns the action bound to ev, if any, resolving CmdOrCtrl for
// the current platform via Matches.
func (r *Registry) Lookup(ev Event) (string, bool) {
	for _, b := range r.bindings {
		if Matches(ev, b.combo) {
			return b.action, true
		}
	}
	return "", false
}

// Bindings returns a copy of the registry's (combo, action) pairs, mainly
// for diagnostics and settings-UI display.
func (r *Registry) Bindings() []struct {
	Combo  KeyCombo
	Action string
} {
	out := make([]struct {
		Combo  KeyCombo
		Action string
	}, len(r.bindings))
	for i, b := range r.bindings {
		out[i].Combo = b.combo
		out[i].Action = b.action
	}
	return out
}

// LogDroppedBindings logs (and drops) parse errors collected by a Builder,
// matching spec §7's policy: "bad bindings are dropped and logged, good
// ones retained."
func LogDroppedBindings(errs []error) {
	for _, e := range errs {
		log.Printf("par-term: keybinding: dropped invalid binding: %v", e)
	}
}
