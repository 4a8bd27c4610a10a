package instruments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chridou/metrix/pkg/metrix"
)

func nonOccurrenceFields(t *testing.T, tr *NonOccurrenceTracker, now time.Time) map[string]any {
	t.Helper()

	root := metrix.NewGroupBuilder("root")
	instB := root.AddInstrument("n")
	tr.EmitSnapshot(instB, now)

	out := make(map[string]any)
	for _, c := range root.Build().Children()[0].Children() {
		v, _ := c.Scalar()
		out[c.Name()] = v
	}

	return out
}

func TestNonOccurrenceTracker_NeverObservedReportsNotRecent(t *testing.T) {
	t.Parallel()

	tr := NewNonOccurrenceTracker(time.Minute)

	fields := nonOccurrenceFields(t, tr, time.Now())
	assert.Equal(t, false, fields["happened_recently"])
	assert.NotContains(t, fields, "elapsed_seconds")
}

func TestNonOccurrenceTracker_RecentOccurrenceReportsTrue(t *testing.T) {
	t.Parallel()

	base := time.Now()
	tr := NewNonOccurrenceTracker(time.Minute)
	tr.Accept(metrix.NoValue(), base)

	fields := nonOccurrenceFields(t, tr, base.Add(10*time.Second))
	assert.Equal(t, true, fields["happened_recently"])
	assert.InDelta(t, 10.0, fields["elapsed_seconds"].(float64), 0.01)
}

func TestNonOccurrenceTracker_StaleOccurrenceReportsFalse(t *testing.T) {
	t.Parallel()

	base := time.Now()
	tr := NewNonOccurrenceTracker(time.Minute)
	tr.Accept(metrix.NoValue(), base)

	fields := nonOccurrenceFields(t, tr, base.Add(2*time.Minute))
	assert.Equal(t, false, fields["happened_recently"])
}

func TestNonOccurrenceTracker_LatestOccurrenceWinsRegardlessOfArrivalOrder(t *testing.T) {
	t.Parallel()

	base := time.Now()
	tr := NewNonOccurrenceTracker(time.Minute)

	tr.Accept(metrix.NoValue(), base.Add(5*time.Second))
	tr.Accept(metrix.NoValue(), base) // arrives "later" in call order but is an older timestamp

	fields := nonOccurrenceFields(t, tr, base.Add(5*time.Second))
	assert.InDelta(t, 0.0, fields["elapsed_seconds"].(float64), 0.01)
}
