package instruments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chridou/metrix/pkg/metrix"
)

func TestMeter_OnlyOneMinuteRateEnabledByDefault(t *testing.T) {
	t.Parallel()

	m := NewMeter()
	now := time.Now()
	m.Accept(metrix.NoValue(), now)

	root := metrix.NewGroupBuilder("root")
	instB := root.AddInstrument("m")
	m.EmitSnapshot(instB, now)

	node := root.Build().Children()[0]

	names := make(map[string]bool)
	for _, c := range node.Children() {
		names[c.Name()] = true
	}

	assert.True(t, names["one_minute_rate"])
	assert.False(t, names["five_minute_rate"], "enabling no extra rate must not enable five-minute")
	assert.False(t, names["fifteen_minute_rate"])
}

func TestMeter_WithRate_IsIndependentPerWindow(t *testing.T) {
	t.Parallel()

	m := NewMeter(WithRate(metrix.Rate5Min))
	now := time.Now()
	m.Accept(metrix.NoValue(), now)

	root := metrix.NewGroupBuilder("root")
	instB := root.AddInstrument("m")
	m.EmitSnapshot(instB, now)

	node := root.Build().Children()[0]

	names := make(map[string]bool)
	for _, c := range node.Children() {
		names[c.Name()] = true
	}

	assert.True(t, names["one_minute_rate"], "1m is always enabled")
	assert.True(t, names["five_minute_rate"])
	assert.False(t, names["fifteen_minute_rate"], "enabling 5m must not implicitly enable 15m")
}

func TestMeter_WithRate_IsIdempotent(t *testing.T) {
	t.Parallel()

	m := NewMeter(WithRate(metrix.Rate1Min), WithRate(metrix.Rate1Min))
	require.Len(t, m.ewmas, 1)
}

func TestMeter_CountsTotalObservations(t *testing.T) {
	t.Parallel()

	m := NewMeter()
	now := time.Now()

	m.Accept(metrix.NoValue(), now)
	m.Accept(metrix.NoValue(), now)
	m.Accept(metrix.NoValue(), now)

	assert.Equal(t, uint64(3), snapshotCount(t, m, now))
}

func TestMeter_CountNumericValues(t *testing.T) {
	t.Parallel()

	m := NewMeter(WithCountNumericValues(true))
	now := time.Now()

	m.Accept(metrix.FloatValue(4), now)
	m.Accept(metrix.FloatValue(0), now) // zero/negative numeric is not counted

	assert.Equal(t, uint64(4), snapshotCount(t, m, now))
}

func snapshotCount(t *testing.T, m *Meter, now time.Time) uint64 {
	t.Helper()

	root := metrix.NewGroupBuilder("root")
	instB := root.AddInstrument("m")
	m.EmitSnapshot(instB, now)

	for _, c := range root.Build().Children()[0].Children() {
		if c.Name() == "count" {
			v, _ := c.Scalar()

			return v.(uint64)
		}
	}

	t.Fatal("count field not emitted")

	return 0
}

func TestMeter_Tick_GatesOnFiveSecondPeriod(t *testing.T) {
	t.Parallel()

	m := NewMeter()
	base := time.Now()

	m.Tick(base)
	m.Tick(base.Add(time.Second)) // too soon, should not advance EWMA
	assert.True(t, m.lastTick.Equal(base), "a call under 5s after the last tick must not advance the EWMA")

	m.Tick(base.Add(6 * time.Second))
	assert.True(t, m.lastTick.Equal(base.Add(5*time.Second)), "one full period elapsed: exactly one EWMA tick")

	// A later call spanning several periods must also complete safely.
	assert.NotPanics(t, func() { m.Tick(base.Add(20 * time.Second)) })
}
