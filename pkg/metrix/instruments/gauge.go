package instruments

import (
	"math"
	"sync"
	"time"

	"github.com/chridou/metrix/pkg/metrix"
)

// GaugeStrategy selects how a Gauge folds an incoming value into its
// current reading.
type GaugeStrategy int

const (
	// GaugeSet makes the current value the last observation's value,
	// last-writer-wins by timestamp rather than arrival order.
	GaugeSet GaugeStrategy = iota
	// GaugeIncrementDecrement adds a ChangedBy delta to the current value.
	GaugeIncrementDecrement
)

// extremum tracks one (value, timestamp) sample for the sliding peak/bottom
// window.
type extremum struct {
	value float64
	at    time.Time
}

// GaugeOption configures a Gauge at construction time.
type GaugeOption func(*Gauge)

// WithPeakWindow enables peak tracking: the reported peak is the max value
// observed within the last window (wall-clock, not sample-count).
func WithPeakWindow(window time.Duration) GaugeOption {
	return func(g *Gauge) {
		g.trackPeak = true
		g.peakWindow = window
	}
}

// WithBottomWindow enables bottom (minimum) tracking over window.
func WithBottomWindow(window time.Duration) GaugeOption {
	return func(g *Gauge) {
		g.trackBottom = true
		g.bottomWindow = window
	}
}

// WithInactivityReset makes the displayed value revert to defaultValue once
// no update has arrived for limit.
func WithInactivityReset(limit time.Duration, defaultValue float64) GaugeOption {
	return func(g *Gauge) {
		g.inactivityLimit = limit
		g.inactivityDefault = defaultValue
	}
}

// Gauge holds a current scalar value under one of two update strategies,
// with optional peak/bottom sliding-window tracking and an optional
// inactivity reset.
type Gauge struct {
	mu       sync.Mutex
	strategy GaugeStrategy
	current  float64

	lastSetAt  time.Time
	lastUpdate time.Time

	inactivityLimit   time.Duration
	inactivityDefault float64

	trackPeak  bool
	peakWindow time.Duration
	peaks      []extremum

	trackBottom  bool
	bottomWindow time.Duration
	bottoms      []extremum
}

// NewGauge creates a Gauge using strategy, starting at initial.
func NewGauge(strategy GaugeStrategy, initial float64, opts ...GaugeOption) *Gauge {
	g := &Gauge{strategy: strategy, current: initial, inactivityDefault: initial}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Accept folds one value into the gauge per its configured strategy. NaN
// and infinite values are ignored.
func (g *Gauge) Accept(value metrix.ObservedValue, at time.Time) {
	if f, ok := value.AsFloat(); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.strategy {
	case GaugeSet:
		f, ok := value.AsFloat()
		if !ok {
			return
		}
		// Last-writer-wins by timestamp, not arrival order.
		if !g.lastSetAt.IsZero() && at.Before(g.lastSetAt) {
			return
		}

		g.current = f
		g.lastSetAt = at
	case GaugeIncrementDecrement:
		delta, ok := value.AsChangedBy()
		if !ok {
			return
		}

		g.current += float64(delta)
	}

	g.lastUpdate = at

	if g.trackPeak {
		g.peaks = appendTrimmed(g.peaks, extremum{value: g.current, at: at}, at, g.peakWindow)
	}

	if g.trackBottom {
		g.bottoms = appendTrimmed(g.bottoms, extremum{value: g.current, at: at}, at, g.bottomWindow)
	}
}

// appendTrimmed appends next, then drops samples that have fallen outside
// [now-window, now].
func appendTrimmed(samples []extremum, next extremum, now time.Time, window time.Duration) []extremum {
	samples = append(samples, next)

	cutoff := now.Add(-window)

	i := 0

	for i < len(samples) && samples[i].at.Before(cutoff) {
		i++
	}

	return samples[i:]
}

// Tick is a no-op; Gauge state updates entirely within Accept/EmitSnapshot.
func (g *Gauge) Tick(time.Time) {}

// EmitSnapshot emits "value" and, if configured, "peak"/"bottom".
func (g *Gauge) EmitSnapshot(b *metrix.SnapshotBuilder, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	value := g.current
	if g.inactivityLimit > 0 && !g.lastUpdate.IsZero() && now.Sub(g.lastUpdate) > g.inactivityLimit {
		value = g.inactivityDefault
	}

	b.SetScalar("value", value)

	if g.trackPeak {
		b.SetScalar("peak", windowExtreme(g.peaks, now, g.peakWindow, g.current, maxOf))
	}

	if g.trackBottom {
		b.SetScalar("bottom", windowExtreme(g.bottoms, now, g.bottomWindow, g.current, minOf))
	}
}

// windowExtreme returns the max/min (per pick) of samples within
// [now-window, now]. If the window has no qualifying samples (every sample
// has aged out), it falls back to current — the gauge's latest known value
// — rather than reporting an undefined extreme over an empty window.
func windowExtreme(samples []extremum, now time.Time, window time.Duration, current float64, pick func(a, b float64) float64) float64 {
	cutoff := now.Add(-window)

	best := current
	found := false

	for _, s := range samples {
		if s.at.Before(cutoff) {
			continue
		}

		if !found {
			best = s.value
			found = true

			continue
		}

		best = pick(best, s.value)
	}

	if !found {
		return current
	}

	return best
}

func maxOf(a, b float64) float64 {
	if b >= a {
		return b
	}

	return a
}

func minOf(a, b float64) float64 {
	if b <= a {
		return b
	}

	return a
}
