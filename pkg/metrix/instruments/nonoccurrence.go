package instruments

import (
	"sync"
	"time"

	"github.com/chridou/metrix/pkg/metrix"
)

// NonOccurrenceTracker reports how long it has been since something last
// happened, and whether that was "recently" per a configured threshold. It
// reacts to any Accept call as an occurrence marker regardless of the
// observed value's kind or content.
type NonOccurrenceTracker struct {
	mu             sync.Mutex
	recentWithin   time.Duration
	lastOccurrence time.Time
}

// NewNonOccurrenceTracker creates a tracker that considers an occurrence
// "recent" if it happened within recentWithin of the current snapshot time.
func NewNonOccurrenceTracker(recentWithin time.Duration) *NonOccurrenceTracker {
	return &NonOccurrenceTracker{recentWithin: recentWithin}
}

// Accept records at as the most recent occurrence. The carried value is
// immaterial; only the fact of the call matters.
func (t *NonOccurrenceTracker) Accept(_ metrix.ObservedValue, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lastOccurrence.IsZero() || at.After(t.lastOccurrence) {
		t.lastOccurrence = at
	}
}

// Tick is a no-op; elapsed time is computed relative to snapshot time.
func (t *NonOccurrenceTracker) Tick(time.Time) {}

// EmitSnapshot emits "happened_recently" and, once at least one occurrence
// has been observed, "elapsed_seconds" since it. A tracker that has never
// observed anything reports happened_recently=false rather than true — the
// absence of any occurrence is never "recent" — and omits elapsed_seconds
// since no elapsed duration is defined.
func (t *NonOccurrenceTracker) EmitSnapshot(b *metrix.SnapshotBuilder, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lastOccurrence.IsZero() {
		b.SetScalar("happened_recently", false)

		return
	}

	elapsed := now.Sub(t.lastOccurrence)

	b.SetScalar("elapsed_seconds", elapsed.Seconds())
	b.SetScalar("happened_recently", elapsed <= t.recentWithin)
}
