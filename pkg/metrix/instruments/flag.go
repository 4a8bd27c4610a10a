package instruments

import (
	"sync"
	"time"

	"github.com/chridou/metrix/pkg/metrix"
)

// FlagOption configures a Flag at construction time.
type FlagOption func(*Flag)

// WithInvertedName sets the display name emitted when the flag is false.
// Without it, a false flag emits an empty name.
func WithInvertedName(name string) FlagOption {
	return func(f *Flag) { f.falseName = name }
}

// WithOmitWhenNone makes EmitSnapshot contribute no fields at all while the
// flag is in its None state, instead of an explicit absent/empty marker.
func WithOmitWhenNone() FlagOption {
	return func(f *Flag) { f.omitWhenNone = true }
}

// Flag is a tri-state indicator: Some(true), Some(false), or None (never
// observed, or the last observation was a pure occurrence carrying no
// boolean reading).
type Flag struct {
	mu           sync.Mutex
	current      *bool
	trueName     string
	falseName    string
	omitWhenNone bool
}

// NewFlag creates a Flag starting in the None state. trueName is the name
// emitted when the flag reads true.
func NewFlag(trueName string, opts ...FlagOption) *Flag {
	f := &Flag{trueName: trueName}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Accept sets the flag's state from value. A boolean-convertible value sets
// Some(b); NoValue (and anything else with no boolean reading) resets to
// None.
func (f *Flag) Accept(value metrix.ObservedValue, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if value.Kind() == metrix.KindNoValue {
		f.current = nil

		return
	}

	b, ok := value.AsBool()
	if !ok {
		f.current = nil

		return
	}

	f.current = &b
}

// Tick is a no-op; Flag has no time-driven state.
func (f *Flag) Tick(time.Time) {}

// EmitSnapshot emits "name" (trueName or falseName) and "state" (true/false)
// when the flag has a value; while None, it either emits no fields at all
// (WithOmitWhenNone) or emits only "state" absent of "name".
func (f *Flag) EmitSnapshot(b *metrix.SnapshotBuilder, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current == nil {
		if f.omitWhenNone {
			return
		}

		b.SetScalar("state", nil)

		return
	}

	if *f.current {
		b.SetScalar("state", true)
		b.SetScalar("name", f.trueName)

		return
	}

	b.SetScalar("state", false)
	b.SetScalar("name", f.falseName)
}
