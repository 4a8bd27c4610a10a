package metrix

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStrategy_Plan(t *testing.T) {
	t.Parallel()

	now := time.Now()

	all := DrainAll().plan(now)
	assert.True(t, all.unbounded)
	assert.False(t, all.hasDeadline)

	bounded := DrainBounded(5).plan(now)
	assert.False(t, bounded.unbounded)
	assert.Equal(t, 5, bounded.max)

	forD := DrainFor(2 * time.Second).plan(now)
	assert.True(t, forD.unbounded)
	assert.True(t, forD.hasDeadline)
	assert.Equal(t, now.Add(2*time.Second), forD.deadline)
}

func TestDefaultStrategy_IsDrainBounded(t *testing.T) {
	t.Parallel()

	plan := DefaultStrategy().plan(time.Now())

	assert.False(t, plan.unbounded)
	assert.Equal(t, defaultDrainBound, plan.max)
}
