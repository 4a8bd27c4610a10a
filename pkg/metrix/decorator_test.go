package metrix

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilteredInstrument_DropsRejectedValues(t *testing.T) {
	t.Parallel()

	inner := &recordingInstrument{}
	f := Filter(inner, func(v ObservedValue) bool {
		b, ok := v.AsBool()

		return ok && b
	})

	now := time.Now()
	f.Accept(BoolValue(true), now)
	f.Accept(BoolValue(false), now)
	f.Tick(now)

	assert.Len(t, inner.accepted, 1)
	assert.Equal(t, 1, inner.ticks)

	root := NewGroupBuilder("root")
	instB := root.AddInstrument("i")
	f.EmitSnapshot(instB, now)
	snap := newSnapshot(root.Build())

	item, ok := snap.Find("i", "count")
	assert.True(t, ok)

	scalar, _ := item.Scalar()
	assert.Equal(t, 1, scalar)
}

func TestRemappedInstrument_TransformsBeforeForwarding(t *testing.T) {
	t.Parallel()

	inner := &recordingInstrument{}
	r := Remap(inner, func(v ObservedValue) ObservedValue {
		f, _ := v.AsFloat()

		return FloatValue(f * 2)
	})

	now := time.Now()
	r.Accept(FloatValue(3), now)

	assert.Len(t, inner.accepted, 1)

	got, ok := inner.accepted[0].AsFloat()
	assert.True(t, ok)
	assert.InDelta(t, 6.0, got, 0.0001)
}
