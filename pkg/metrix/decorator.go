package metrix

import "time"

// ValuePredicate reports whether a value should reach the decorated
// instrument.
type ValuePredicate func(value ObservedValue) bool

// ValueTransform rewrites a value before it reaches the decorated
// instrument.
type ValueTransform func(value ObservedValue) ObservedValue

// FilteredInstrument decorates an Instrument so that only values passing
// keep reach it. Ticks and snapshot emission always pass through unchanged
// — filtering only affects which values the wrapped instrument accumulates.
type FilteredInstrument struct {
	inner Instrument
	keep  ValuePredicate
}

// Filter wraps inner so that Accept is a no-op for any value keep rejects.
func Filter(inner Instrument, keep ValuePredicate) *FilteredInstrument {
	return &FilteredInstrument{inner: inner, keep: keep}
}

// Accept forwards value to the wrapped instrument only if keep(value).
func (f *FilteredInstrument) Accept(value ObservedValue, at time.Time) {
	if f.keep == nil || f.keep(value) {
		f.inner.Accept(value, at)
	}
}

// Tick forwards to the wrapped instrument.
func (f *FilteredInstrument) Tick(now time.Time) { f.inner.Tick(now) }

// EmitSnapshot forwards to the wrapped instrument.
func (f *FilteredInstrument) EmitSnapshot(b *SnapshotBuilder, now time.Time) {
	f.inner.EmitSnapshot(b, now)
}

// RemappedInstrument decorates an Instrument, rewriting each value through
// transform before it reaches the wrapped instrument (e.g. unit conversion,
// clamping, or collapsing several ObservedValue shapes into one).
type RemappedInstrument struct {
	inner     Instrument
	transform ValueTransform
}

// Remap wraps inner so that every accepted value is passed through
// transform first.
func Remap(inner Instrument, transform ValueTransform) *RemappedInstrument {
	return &RemappedInstrument{inner: inner, transform: transform}
}

// Accept transforms value, then forwards it to the wrapped instrument.
func (r *RemappedInstrument) Accept(value ObservedValue, at time.Time) {
	if r.transform != nil {
		value = r.transform(value)
	}

	r.inner.Accept(value, at)
}

// Tick forwards to the wrapped instrument.
func (r *RemappedInstrument) Tick(now time.Time) { r.inner.Tick(now) }

// EmitSnapshot forwards to the wrapped instrument.
func (r *RemappedInstrument) EmitSnapshot(b *SnapshotBuilder, now time.Time) {
	r.inner.EmitSnapshot(b, now)
}
