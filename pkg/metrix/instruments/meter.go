package instruments

import (
	"sync"
	"time"

	gometrics "github.com/rcrowley/go-metrics"

	"github.com/chridou/metrix/pkg/metrix"
)

// meterTickPeriod is the EWMA tick period, fixed at 5 seconds to match the
// UNIX load-average formulation github.com/rcrowley/go-metrics implements.
const meterTickPeriod = 5 * time.Second

// newEWMA constructs the rcrowley/go-metrics EWMA for one of the three
// recognized windows.
func newEWMA(rate metrix.MeterRate) gometrics.EWMA {
	switch rate {
	case metrix.Rate5Min:
		return gometrics.NewEWMA5()
	case metrix.Rate15Min:
		return gometrics.NewEWMA15()
	case metrix.Rate1Min:
		fallthrough
	default:
		return gometrics.NewEWMA1()
	}
}

// MeterOption configures a Meter at construction time.
type MeterOption func(*Meter)

// WithRate enables an additional EWMA window. Rate1Min is always enabled;
// calling WithRate(Rate1Min) is a harmless no-op. Each rate is independent:
// enabling Rate5Min never implicitly enables Rate15Min.
func WithRate(rate metrix.MeterRate) MeterOption {
	return func(m *Meter) {
		if _, ok := m.ewmas[rate]; ok {
			return
		}

		m.ewmas[rate] = newEWMA(rate)
	}
}

// WithCountNumericValues makes the meter count the integer part of a
// numeric observation's value instead of 1 per observation.
func WithCountNumericValues(enabled bool) MeterOption {
	return func(m *Meter) { m.countNumeric = enabled }
}

// Meter computes 1/5/15-minute exponentially weighted moving rates over a
// stream of occurrences (or numeric values, if so configured). Only
// explicitly enabled rates are computed and emitted; 1-minute is enabled by
// default.
type Meter struct {
	mu           sync.Mutex
	ewmas        map[metrix.MeterRate]gometrics.EWMA
	countNumeric bool
	total        uint64
	lastTick     time.Time
}

// NewMeter creates a Meter with the 1-minute rate enabled.
func NewMeter(opts ...MeterOption) *Meter {
	m := &Meter{
		ewmas: map[metrix.MeterRate]gometrics.EWMA{
			metrix.Rate1Min: gometrics.NewEWMA1(),
		},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Accept folds one observation into every enabled EWMA.
func (m *Meter) Accept(value metrix.ObservedValue, _ time.Time) {
	n := int64(1)

	if m.countNumeric {
		if f, ok := value.AsFloat(); ok {
			n = int64(f)
		}
	}

	if n <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.ewmas {
		e.Update(n)
	}

	m.total += uint64(n)
}

// Tick advances every enabled EWMA once for each full 5-second tick period
// elapsed since the last tick. The Driver calls Tick far more often
// than every 5 seconds (its own cadence defaults to 1 second); this method
// decides internally when a real EWMA tick is due so the rate is correct
// regardless of the driver's polling cadence.
func (m *Meter) Tick(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastTick.IsZero() {
		m.lastTick = now

		return
	}

	for now.Sub(m.lastTick) >= meterTickPeriod {
		for _, e := range m.ewmas {
			e.Tick()
		}

		m.lastTick = m.lastTick.Add(meterTickPeriod)
	}
}

// EmitSnapshot emits "count" plus one "*_rate" field (observations per
// second) for each enabled window.
func (m *Meter) EmitSnapshot(b *metrix.SnapshotBuilder, _ time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b.SetScalar("count", m.total)

	if e, ok := m.ewmas[metrix.Rate1Min]; ok {
		b.SetScalar("one_minute_rate", e.Rate())
	}

	if e, ok := m.ewmas[metrix.Rate5Min]; ok {
		b.SetScalar("five_minute_rate", e.Rate())
	}

	if e, ok := m.ewmas[metrix.Rate15Min]; ok {
		b.SetScalar("fifteen_minute_rate", e.Rate())
	}
}
