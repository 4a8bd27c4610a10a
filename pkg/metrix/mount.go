package metrix

import (
	"fmt"
	"sync"
	"time"
)

// AnyProcessor is the type-erased surface a ProcessorMount (and a
// TelemetryDriver) operates on. Label type stays inside the concrete
// Processor[L] and never crosses this boundary: each processor exposes only
// process/tick/snapshot, so a mount can hold processors of different label
// types side by side.
type AnyProcessor interface {
	Name() string

	process(plan drainPlan) outcome
	tick(now time.Time)
	snapshot(parent *SnapshotBuilder, now time.Time)
}

// ProcessorMount is a label-agnostic, named, ordered collection of
// processors (or nested mounts — both satisfy AnyProcessor). Invariant:
// each child's name is unique within a mount.
type ProcessorMount struct {
	mu         sync.Mutex
	name       string
	processors []AnyProcessor
	byName     map[string]struct{}
}

// NewProcessorMount creates an empty mount.
func NewProcessorMount(name string) *ProcessorMount {
	return &ProcessorMount{name: name, byName: make(map[string]struct{})}
}

// Name returns the mount's name.
func (m *ProcessorMount) Name() string { return m.name }

// AddProcessor registers p. Fails with ErrDuplicateName if a processor (or
// nested mount) with the same name is already present.
func (m *ProcessorMount) AddProcessor(p AnyProcessor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[p.Name()]; exists {
		return fmt.Errorf("%w: processor %q in mount %q", ErrDuplicateName, p.Name(), m.name)
	}

	m.byName[p.Name()] = struct{}{}
	m.processors = append(m.processors, p)

	return nil
}

// count reports how many processors the mount currently owns.
func (m *ProcessorMount) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.processors)
}

// process drains every member processor, evicting any that report
// Disconnected. A mount itself never reports Disconnected — only leaf
// Processors do; a mount with zero children simply has nothing to do.
func (m *ProcessorMount) process(plan drainPlan) outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	alive := m.processors[:0]

	for _, p := range m.processors {
		if p.process(plan) == outcomeDisconnected {
			delete(m.byName, p.Name())

			continue
		}

		alive = append(alive, p)
	}

	m.processors = alive

	return outcomeContinue
}

// tick advances every member processor.
func (m *ProcessorMount) tick(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.processors {
		p.tick(now)
	}
}

// snapshot contributes this mount's subtree: a Group node named after the
// mount, containing one subtree per member processor.
func (m *ProcessorMount) snapshot(parent *SnapshotBuilder, now time.Time) {
	b := parent.AddGroup(m.name)
	m.snapshotInto(b, now)
}

// snapshotInto contributes one subtree per member processor directly into
// b, without wrapping them in an extra group for the mount itself. Used for
// the driver's implicit root mount, whose name already labels the
// snapshot's root node.
func (m *ProcessorMount) snapshotInto(b *SnapshotBuilder, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.processors {
		p.snapshot(b, now)
	}
}
