package instruments

import (
	"math"
	"sync"
	"time"

	"github.com/chridou/metrix/internal/reservoir"
	"github.com/chridou/metrix/pkg/metrix"
)

// DefaultHistogramCapacity is the default reservoir size.
const DefaultHistogramCapacity = 1024

// HistogramOption configures a Histogram at construction time.
type HistogramOption func(*Histogram)

// WithResetAfter clears the reservoir if no observation has arrived for
// longer than after. A zero duration (the default) disables inactivity
// reset.
func WithResetAfter(after time.Duration) HistogramOption {
	return func(h *Histogram) { h.resetAfter = after }
}

// Histogram is a streaming quantile/min/max/mean estimator over a
// fixed-capacity uniform reservoir, with an optional inactivity reset.
type Histogram struct {
	mu             sync.Mutex
	res            *reservoir.Reservoir
	resetAfter     time.Duration
	lastObservedAt time.Time
}

// NewHistogram creates a Histogram with the given reservoir capacity (use
// DefaultHistogramCapacity absent a specific reason to deviate).
func NewHistogram(capacity int, opts ...HistogramOption) *Histogram {
	h := &Histogram{res: reservoir.New(capacity)}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Accept folds one numeric value into the reservoir. NaN and infinite
// values are ignored, as is NoValue, which has no numeric reading. A Bool
// is folded in as 0 or 1.
func (h *Histogram) Accept(value metrix.ObservedValue, at time.Time) {
	f, ok := value.AsFloat()
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.res.Update(f)
	h.lastObservedAt = at
}

// Tick is a no-op; the inactivity reset is applied lazily at snapshot time
// rather than on a timer, since it only matters when someone is about to
// read the histogram.
func (h *Histogram) Tick(time.Time) {}

// EmitSnapshot clears the reservoir first if it has been inactive longer
// than resetAfter, then emits count, min, max, mean, and the fixed
// quantile set {0.5, 0.75, 0.95, 0.99, 0.999}. When the reservoir is empty,
// only count (zero) is emitted.
func (h *Histogram) EmitSnapshot(b *metrix.SnapshotBuilder, now time.Time) {
	h.mu.Lock()

	if h.resetAfter > 0 && !h.lastObservedAt.IsZero() && now.Sub(h.lastObservedAt) > h.resetAfter {
		h.res.Reset()
	}

	sample := h.res.Snapshot()

	h.mu.Unlock()

	b.SetScalar("count", sample.Count)

	if sample.Count == 0 {
		return
	}

	b.SetScalar("min", sample.Min)
	b.SetScalar("max", sample.Max)
	b.SetScalar("mean", sample.Mean)
	b.SetScalar("p50", sample.Quantiles[0.5])
	b.SetScalar("p75", sample.Quantiles[0.75])
	b.SetScalar("p95", sample.Quantiles[0.95])
	b.SetScalar("p99", sample.Quantiles[0.99])
	b.SetScalar("p999", sample.Quantiles[0.999])
}
