package metrix

import (
	"sync/atomic"
	"time"
)

// defaultChannelCapacity bounds the observation channel. A truly unbounded
// multi-producer/single-consumer channel isn't representable with Go
// channels, so this library uses a generously sized buffer and a
// non-blocking send that silently drops the observation when full — lost
// observations under extreme overload are an accepted tradeoff, not a bug.
const defaultChannelCapacity = 4096

// outcome is the internal result of one Processor.process call. It is never
// surfaced to users as an error.
type outcome int

const (
	outcomeContinue outcome = iota
	outcomeDisconnected
)

// transportState is the shared state behind a Transmitter/Processor pair:
// the channel itself and a live-sender count used to detect disconnection.
type transportState[L comparable] struct {
	ch      chan Observation[L]
	senders atomic.Int64
}

// Transmitter is the producer-side handle created alongside a Processor by
// NewTelemetryProcessor. Every method is wait-free from the caller's
// standpoint: it stamps the current time, wraps the observation, and pushes
// it into the channel without blocking.
type Transmitter[L comparable] struct {
	state *transportState[L]
}

// NewTelemetryProcessor creates a Transmitter/Processor pair sharing a
// fresh observation channel. name prefixes the processor's subtree in any
// snapshot that includes it.
func NewTelemetryProcessor[L comparable](name string) (*Transmitter[L], *Processor[L]) {
	st := &transportState[L]{ch: make(chan Observation[L], defaultChannelCapacity)}
	st.senders.Store(1)

	return &Transmitter[L]{state: st}, &Processor[L]{name: name, state: st}
}

// Clone returns a second handle onto the same channel, incrementing the
// live-sender count. Use this to hand out independent Transmitter values to
// multiple goroutines/components that should share one Processor.
func (t *Transmitter[L]) Clone() *Transmitter[L] {
	t.state.senders.Add(1)

	return &Transmitter[L]{state: t.state}
}

// Close marks this handle as no longer sending. Once every clone of a
// Transmitter has been closed, the owning Processor becomes disconnected
// once its queue drains.
func (t *Transmitter[L]) Close() {
	t.state.senders.Add(-1)
}

// Observed stamps the current time and enqueues (label, value). If the
// channel is full or disconnected, the observation is silently dropped —
// never an error.
func (t *Transmitter[L]) Observed(label L, value ObservedValue) {
	obs := newObservation(label, value, time.Now())

	select {
	case t.state.ch <- obs:
	default:
	}
}

// ObservedOne records a pure occurrence (no associated scalar) for label.
func (t *Transmitter[L]) ObservedOne(label L) {
	t.Observed(label, NoValue())
}

// ObservedBool records a boolean observation for label.
func (t *Transmitter[L]) ObservedBool(label L, value bool) {
	t.Observed(label, BoolValue(value))
}

// ObservedDurationSince records the elapsed time since start as a Duration
// observation for label.
func (t *Transmitter[L]) ObservedDurationSince(label L, start time.Time) {
	t.Observed(label, DurationNanos(uint64(time.Since(start).Nanoseconds())))
}

// drainPlan is the per-invocation work budget handed to Processor.process,
// derived from a Strategy.
type drainPlan struct {
	unbounded   bool
	max         int
	hasDeadline bool
	deadline    time.Time
}

// Processor owns zero or more cockpits of a single label type and the
// receiving end of its observation channel. It is only ever polled by its
// owning Driver's background thread.
type Processor[L comparable] struct {
	name     string
	state    *transportState[L]
	cockpits []*Cockpit[L]
}

// Name returns the processor's name (may be empty).
func (p *Processor[L]) Name() string { return p.name }

// AddCockpit registers a cockpit to receive routed observations.
func (p *Processor[L]) AddCockpit(c *Cockpit[L]) {
	p.cockpits = append(p.cockpits, c)
}

// process drains up to plan's budget from the channel, routing each
// observation to every matching cockpit/panel/instrument, and reports
// whether the processor should be considered disconnected.
func (p *Processor[L]) process(plan drainPlan) outcome {
	drained := 0

	for plan.unbounded || drained < plan.max {
		if plan.hasDeadline && time.Now().After(plan.deadline) {
			break
		}

		select {
		case obs := <-p.state.ch:
			for _, c := range p.cockpits {
				c.dispatch(obs)
			}

			drained++
		default:
			return p.connectionOutcome()
		}
	}

	return p.connectionOutcome()
}

// connectionOutcome reports Disconnected iff there are no live senders and
// the channel is currently empty.
func (p *Processor[L]) connectionOutcome() outcome {
	if p.state.senders.Load() == 0 && len(p.state.ch) == 0 {
		return outcomeDisconnected
	}

	return outcomeContinue
}

// tick advances every cockpit's instruments.
func (p *Processor[L]) tick(now time.Time) {
	for _, c := range p.cockpits {
		c.tick(now)
	}
}

// snapshot contributes this processor's subtree: a Group node named after
// the processor, containing one Group per cockpit.
func (p *Processor[L]) snapshot(parent *SnapshotBuilder, now time.Time) {
	b := parent.AddGroup(p.name)

	for _, c := range p.cockpits {
		c.snapshot(b, now)
	}
}
