package metrix

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInstrument struct {
	accepted []ObservedValue
	ticks    int
}

func (r *recordingInstrument) Accept(value ObservedValue, _ time.Time) {
	r.accepted = append(r.accepted, value)
}

func (r *recordingInstrument) Tick(time.Time) { r.ticks++ }

func (r *recordingInstrument) EmitSnapshot(b *SnapshotBuilder, _ time.Time) {
	b.SetScalar("count", len(r.accepted))
}

func TestPanel_ForValue_MatchesOnlyExactLabel(t *testing.T) {
	t.Parallel()

	p := ForValue("p", "checkout")

	assert.True(t, p.matches("checkout"))
	assert.False(t, p.matches("login"))
}

func TestPanel_ForValues_MatchesSet(t *testing.T) {
	t.Parallel()

	p := ForValues("p", "a", "b")

	assert.True(t, p.matches("a"))
	assert.True(t, p.matches("b"))
	assert.False(t, p.matches("c"))
}

func TestPanel_ForPredicate(t *testing.T) {
	t.Parallel()

	p := ForPredicate("p", func(l string) bool { return len(l) > 3 })

	assert.True(t, p.matches("long-label"))
	assert.False(t, p.matches("abc"))
}

func TestPanel_WithLabelRemap_AppliesBeforeMatch(t *testing.T) {
	t.Parallel()

	p := ForValue("p", "normalized").WithLabelRemap(func(l string) string {
		return "normalized"
	})

	assert.True(t, p.matches("anything at all"))
}

func TestPanel_AddInstrument_RejectsDuplicateName(t *testing.T) {
	t.Parallel()

	p := ForValue("p", "x")

	require.NoError(t, p.AddInstrument("count", &recordingInstrument{}))

	err := p.AddInstrument("count", &recordingInstrument{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestPanel_DispatchAndSnapshot(t *testing.T) {
	t.Parallel()

	p := ForValue("p", "x")
	inst := &recordingInstrument{}
	require.NoError(t, p.AddInstrument("hits", inst))

	now := time.Now()
	p.dispatch(BoolValue(true), now)
	p.dispatch(BoolValue(false), now)
	p.tick(now)

	assert.Len(t, inst.accepted, 2)
	assert.Equal(t, 1, inst.ticks)

	root := NewGroupBuilder("root")
	p.snapshot(root, now)
	snap := newSnapshot(root.Build())

	item, ok := snap.Find("p", "hits", "count")
	require.True(t, ok)

	scalar, _ := item.Scalar()
	assert.Equal(t, 2, scalar)
}

func TestCockpit_DispatchFansOutToMatchingPanels(t *testing.T) {
	t.Parallel()

	c := NewCockpit[string]("requests")

	instA := &recordingInstrument{}
	panelA := ForValue("checkout", "checkout")
	require.NoError(t, panelA.AddInstrument("count", instA))
	require.NoError(t, c.AddPanel(panelA))

	instAll := &recordingInstrument{}
	panelAll := ForPredicate("all", func(string) bool { return true })
	require.NoError(t, panelAll.AddInstrument("count", instAll))
	require.NoError(t, c.AddPanel(panelAll))

	now := time.Now()
	c.dispatch(Observation[string]{Label: "checkout", Value: NoValue(), Timestamp: now})
	c.dispatch(Observation[string]{Label: "login", Value: NoValue(), Timestamp: now})

	assert.Len(t, instA.accepted, 1, "only the matching panel should see the checkout observation")
	assert.Len(t, instAll.accepted, 2, "the catch-all panel sees every observation")
}

func TestCockpit_AddPanel_RejectsDuplicateName(t *testing.T) {
	t.Parallel()

	c := NewCockpit[string]("requests")

	require.NoError(t, c.AddPanel(ForValue("dup", "a")))

	err := c.AddPanel(ForValue("dup", "b"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)
}
