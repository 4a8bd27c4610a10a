package metrix

import "time"

// Instrument is the uniform capability set every aggregation primitive
// implements: accept an observation's value, tick (for time-driven state
// such as a Meter's EWMA), and emit its snapshot fragment. Label dispatch happens above this interface (in Panel);
// by the time an Instrument sees a value its label has already matched.
type Instrument interface {
	// Accept folds one observed value, stamped at, into the instrument's
	// running state.
	Accept(value ObservedValue, at time.Time)

	// Tick drives time-based state. Most instruments no-op here; Meter uses
	// it to advance its EWMA ticks at their configured period.
	Tick(now time.Time)

	// EmitSnapshot contributes this instrument's named scalar fields to b,
	// evaluated as of now (inactivity resets, sliding windows, and show
	// durations are all relative to the now passed here, not wall time read
	// internally, so a single snapshot pass is internally consistent).
	EmitSnapshot(b *SnapshotBuilder, now time.Time)
}
