package instruments

import (
	"sync"
	"time"

	"github.com/chridou/metrix/pkg/metrix"
)

// DataDisplay holds the most recently observed value for showDuration, then
// reverts to a configured default until another observation arrives.
type DataDisplay struct {
	mu           sync.Mutex
	showDuration time.Duration
	defaultValue metrix.ObservedValue

	current metrix.ObservedValue
	shownAt time.Time
}

// NewDataDisplay creates a DataDisplay that reverts to defaultValue once
// showDuration has elapsed since the last Accept.
func NewDataDisplay(showDuration time.Duration, defaultValue metrix.ObservedValue) *DataDisplay {
	return &DataDisplay{
		showDuration: showDuration,
		defaultValue: defaultValue,
		current:      defaultValue,
	}
}

// Accept replaces the displayed value and resets its show-duration clock.
func (d *DataDisplay) Accept(value metrix.ObservedValue, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.current = value
	d.shownAt = at
}

// Tick is a no-op; reversion to the default is applied lazily at snapshot
// time.
func (d *DataDisplay) Tick(time.Time) {}

// EmitSnapshot emits "value" as the currently displayed value: the last
// observed value if it is still within showDuration, otherwise the
// configured default.
func (d *DataDisplay) EmitSnapshot(b *metrix.SnapshotBuilder, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	value := d.current
	if d.showDuration > 0 && !d.shownAt.IsZero() && now.Sub(d.shownAt) > d.showDuration {
		value = d.defaultValue
	}

	b.SetScalar("value", value.String())
}
