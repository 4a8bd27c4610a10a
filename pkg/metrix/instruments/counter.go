// Package instruments provides the concrete streaming-aggregation
// primitives applications attach to a metrix Panel: Counter, Meter, Gauge,
// Histogram, Flag, NonOccurrenceTracker, and DataDisplay.
package instruments

import (
	"math"
	"sync"
	"time"

	"github.com/chridou/metrix/pkg/metrix"
)

// Counter is a monotonically increasing, saturating unsigned counter. It
// accepts any numeric value or ChangedBy(delta); negative deltas are
// ignored rather than underflowing.
type Counter struct {
	mu    sync.Mutex
	value uint64
}

// NewCounter creates a Counter starting at zero.
func NewCounter() *Counter { return &Counter{} }

// Accept folds one value into the running total. A pure occurrence
// (NoValue) counts as 1, matching the "occurred once" reading every other
// occurrence-counting instrument in this package gives it.
func (c *Counter) Accept(value metrix.ObservedValue, _ time.Time) {
	var delta uint64

	switch value.Kind() {
	case metrix.KindNoValue:
		delta = 1
	default:
		d, ok := value.AsChangedBy()
		if !ok || d <= 0 {
			return
		}

		delta = uint64(d)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if delta > math.MaxUint64-c.value {
		c.value = math.MaxUint64
	} else {
		c.value += delta
	}
}

// Tick is a no-op; Counter has no time-driven state.
func (c *Counter) Tick(time.Time) {}

// Value returns the current total.
func (c *Counter) Value() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.value
}

// EmitSnapshot emits a single "count" field.
func (c *Counter) EmitSnapshot(b *metrix.SnapshotBuilder, _ time.Time) {
	b.SetScalar("count", c.Value())
}
