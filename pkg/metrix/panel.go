package metrix

import (
	"fmt"
	"time"
)

// labelMatcher decides whether an observation's label binds to a panel: a
// panel may be bound to a single value, a set of values, or a predicate.
type labelMatcher[L comparable] interface {
	match(label L) bool
}

type exactMatcher[L comparable] struct{ value L }

func (m exactMatcher[L]) match(label L) bool { return label == m.value }

type setMatcher[L comparable] struct{ values map[L]struct{} }

func (m setMatcher[L]) match(label L) bool {
	_, ok := m.values[label]

	return ok
}

type predicateMatcher[L comparable] struct{ pred func(L) bool }

func (m predicateMatcher[L]) match(label L) bool { return m.pred(label) }

// instrumentEntry pairs a name with its instrument, preserving insertion
// order for deterministic snapshot field ordering.
type instrumentEntry struct {
	name string
	inst Instrument
}

// Panel is a named collection of instruments sharing one label binding.
// Invariant: no two instruments in a panel share a name.
type Panel[L comparable] struct {
	name        string
	matcher     labelMatcher[L]
	remap       func(L) L
	instruments []instrumentEntry
	byName      map[string]struct{}
}

// ForValue creates a panel bound to a single label value.
func ForValue[L comparable](name string, value L) *Panel[L] {
	return newPanel[L](name, exactMatcher[L]{value: value})
}

// ForValues creates a panel bound to a set of label values. Panel names
// must still be unique within a cockpit even though label values may
// repeat across panels.
func ForValues[L comparable](name string, values ...L) *Panel[L] {
	set := make(map[L]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return newPanel[L](name, setMatcher[L]{values: set})
}

// ForPredicate creates a panel bound by an arbitrary predicate over labels.
func ForPredicate[L comparable](name string, pred func(L) bool) *Panel[L] {
	return newPanel[L](name, predicateMatcher[L]{pred: pred})
}

func newPanel[L comparable](name string, matcher labelMatcher[L]) *Panel[L] {
	return &Panel[L]{
		name:    name,
		matcher: matcher,
		byName:  make(map[string]struct{}),
	}
}

// Named renames the panel's subtree node. Returns the panel for chaining.
func (p *Panel[L]) Named(name string) *Panel[L] {
	p.name = name

	return p
}

// WithLabelRemap installs a function that rewrites an observation's label
// before the panel's own matcher sees it.
func (p *Panel[L]) WithLabelRemap(remap func(L) L) *Panel[L] {
	p.remap = remap

	return p
}

// Name returns the panel's name.
func (p *Panel[L]) Name() string { return p.name }

// AddInstrument registers instr under name. Fails with ErrDuplicateName if
// that name is already taken in this panel.
func (p *Panel[L]) AddInstrument(name string, instr Instrument) error {
	if _, exists := p.byName[name]; exists {
		return fmt.Errorf("%w: instrument %q in panel %q", ErrDuplicateName, name, p.name)
	}

	p.byName[name] = struct{}{}
	p.instruments = append(p.instruments, instrumentEntry{name: name, inst: instr})

	return nil
}

// matches reports whether label, after remapping, binds to this panel.
func (p *Panel[L]) matches(label L) bool {
	if p.remap != nil {
		label = p.remap(label)
	}

	return p.matcher.match(label)
}

// dispatch forwards value/at to every instrument in the panel.
func (p *Panel[L]) dispatch(value ObservedValue, at time.Time) {
	for _, e := range p.instruments {
		e.inst.Accept(value, at)
	}
}

// tick advances every instrument's time-driven state.
func (p *Panel[L]) tick(now time.Time) {
	for _, e := range p.instruments {
		e.inst.Tick(now)
	}
}

// snapshot contributes this panel's subtree: a Panel node with one
// Instrument child per registered instrument.
func (p *Panel[L]) snapshot(parent *SnapshotBuilder, now time.Time) {
	b := parent.AddPanel(p.name)

	for _, e := range p.instruments {
		instB := b.AddInstrument(e.name)
		e.inst.EmitSnapshot(instB, now)
	}
}
