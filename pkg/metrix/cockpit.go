package metrix

import (
	"fmt"
	"time"
)

// Cockpit is a named collection of panels for a single label type L.
// Invariant: panels' label values need not be unique (several panels may
// match the same value), but each panel name is unique.
type Cockpit[L comparable] struct {
	name   string
	panels []*Panel[L]
	byName map[string]struct{}
}

// NewCockpit creates a cockpit. An empty name is legal; it is used verbatim
// as the group node name in the resulting snapshot.
func NewCockpit[L comparable](name string) *Cockpit[L] {
	return &Cockpit[L]{name: name, byName: make(map[string]struct{})}
}

// Name returns the cockpit's name.
func (c *Cockpit[L]) Name() string { return c.name }

// AddPanel registers p. Fails with ErrDuplicateName if a panel with the
// same name is already present.
func (c *Cockpit[L]) AddPanel(p *Panel[L]) error {
	if _, exists := c.byName[p.name]; exists {
		return fmt.Errorf("%w: panel %q in cockpit %q", ErrDuplicateName, p.name, c.name)
	}

	c.byName[p.name] = struct{}{}
	c.panels = append(c.panels, p)

	return nil
}

// dispatch routes one observation to every panel whose binding matches its
// label. Zero, one, or many panels may match.
func (c *Cockpit[L]) dispatch(obs Observation[L]) {
	for _, p := range c.panels {
		if p.matches(obs.Label) {
			p.dispatch(obs.Value, obs.Timestamp)
		}
	}
}

// tick advances every panel's instruments.
func (c *Cockpit[L]) tick(now time.Time) {
	for _, p := range c.panels {
		p.tick(now)
	}
}

// snapshot contributes this cockpit's subtree: a Group node named after the
// cockpit, containing one Panel node per panel.
func (c *Cockpit[L]) snapshot(parent *SnapshotBuilder, now time.Time) {
	b := parent.AddGroup(c.name)

	for _, p := range c.panels {
		p.snapshot(b, now)
	}
}
