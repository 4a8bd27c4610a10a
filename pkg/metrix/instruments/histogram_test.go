package instruments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chridou/metrix/pkg/metrix"
)

func histogramFields(t *testing.T, h *Histogram, now time.Time) map[string]any {
	t.Helper()

	root := metrix.NewGroupBuilder("root")
	instB := root.AddInstrument("h")
	h.EmitSnapshot(instB, now)

	out := make(map[string]any)
	for _, c := range root.Build().Children()[0].Children() {
		v, _ := c.Scalar()
		out[c.Name()] = v
	}

	return out
}

func TestHistogram_EmptyReportsOnlyCount(t *testing.T) {
	t.Parallel()

	h := NewHistogram(DefaultHistogramCapacity)
	fields := histogramFields(t, h, time.Now())

	require.Contains(t, fields, "count")
	assert.Equal(t, uint64(0), fields["count"])
	assert.NotContains(t, fields, "min")
	assert.NotContains(t, fields, "max")
	assert.NotContains(t, fields, "mean")
}

func TestHistogram_ReportsQuantilesOnceObserved(t *testing.T) {
	t.Parallel()

	h := NewHistogram(DefaultHistogramCapacity)
	now := time.Now()

	for _, v := range []float64{1, 2, 3, 4, 5} {
		h.Accept(metrix.FloatValue(v), now)
	}

	fields := histogramFields(t, h, now)

	assert.Equal(t, uint64(5), fields["count"])
	assert.InDelta(t, 1.0, fields["min"].(float64), 0.0001)
	assert.InDelta(t, 5.0, fields["max"].(float64), 0.0001)
	assert.InDelta(t, 3.0, fields["mean"].(float64), 0.0001)
	assert.Contains(t, fields, "p50")
	assert.Contains(t, fields, "p99")
}

func TestHistogram_RejectsNaNAndInf(t *testing.T) {
	t.Parallel()

	h := NewHistogram(DefaultHistogramCapacity)
	now := time.Now()

	h.Accept(metrix.FloatValue(1), now)

	// Use math-free NaN/Inf construction to avoid an extra import just for
	// the negative cases.
	nan := metrix.FloatValue(nanValue())
	inf := metrix.FloatValue(infValue())
	h.Accept(nan, now)
	h.Accept(inf, now)

	fields := histogramFields(t, h, now)
	assert.Equal(t, uint64(1), fields["count"], "NaN and Inf observations must be rejected")
}

func nanValue() float64 {
	var zero float64

	return zero / zero
}

func infValue() float64 {
	var zero float64

	return 1 / zero
}

func TestHistogram_ResetsAfterInactivity(t *testing.T) {
	t.Parallel()

	base := time.Now()
	h := NewHistogram(DefaultHistogramCapacity, WithResetAfter(time.Second))

	h.Accept(metrix.FloatValue(42), base)

	fields := histogramFields(t, h, base.Add(500*time.Millisecond))
	assert.Equal(t, uint64(1), fields["count"])

	fields = histogramFields(t, h, base.Add(2*time.Second))
	assert.Equal(t, uint64(0), fields["count"], "reservoir must reset once inactive past resetAfter")
	assert.NotContains(t, fields, "min")
}
