package metrix

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// MeterRate names one of a Meter's three EWMA windows.
type MeterRate int

// Recognized meter rates. Only Rate1Min is enabled by default on a new
// Meter; each rate is an independent opt-in, enabling one never implicitly
// enables another.
const (
	Rate1Min MeterRate = iota
	Rate5Min
	Rate15Min
)

func (r MeterRate) String() string {
	switch r {
	case Rate1Min:
		return "1m"
	case Rate5Min:
		return "5m"
	case Rate15Min:
		return "15m"
	default:
		return "unknown"
	}
}

// defaultTickInterval is the Driver's default background-thread cadence.
const defaultTickInterval = time.Second

// DriverConfig configures a TelemetryDriver. Build one with
// DefaultDriverConfig and adjust via its With* methods.
type DriverConfig struct {
	name         string
	strategy     Strategy
	tickInterval time.Duration
	meterRates   map[MeterRate]struct{}
	logger       *slog.Logger
}

// DefaultDriverConfig returns { strategy: DrainBounded(256), tick_interval:
// 1s, meter_rates: {1m} }.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		strategy:     DefaultStrategy(),
		tickInterval: defaultTickInterval,
		meterRates:   map[MeterRate]struct{}{Rate1Min: {}},
	}
}

// WithName sets the driver's name.
func (c DriverConfig) WithName(name string) DriverConfig {
	c.name = name

	return c
}

// WithStrategy sets the processing strategy.
func (c DriverConfig) WithStrategy(s Strategy) DriverConfig {
	c.strategy = s

	return c
}

// WithTickInterval sets the background thread's polling cadence.
func (c DriverConfig) WithTickInterval(d time.Duration) DriverConfig {
	c.tickInterval = d

	return c
}

// WithMeterRates sets the informational default rate set new meters under
// this driver are expected to enable. The driver itself never constructs or
// configures meters — ticking is a generic Instrument.Tick call that works
// the same for every instrument kind — so this is advisory metadata for
// callers, not an enforced constraint.
func (c DriverConfig) WithMeterRates(rates ...MeterRate) DriverConfig {
	set := make(map[MeterRate]struct{}, len(rates))
	for _, r := range rates {
		set[r] = struct{}{}
	}

	c.meterRates = set

	return c
}

// WithLogger sets the structured logger used for the driver's background
// thread. When unset, logging is a no-op (discard handler).
func (c DriverConfig) WithLogger(logger *slog.Logger) DriverConfig {
	c.logger = logger

	return c
}

func (c DriverConfig) logOrDiscard() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// snapshotRequest is one pending, not-yet-fulfilled snapshot query.
type snapshotRequest struct {
	result chan *Snapshot
}

// SnapshotFuture is the asynchronous handle returned by
// TelemetryDriver.Snapshot: the query returns immediately, fulfilled later
// by the driver's background thread.
type SnapshotFuture struct {
	ch <-chan *Snapshot
}

// Get blocks until the snapshot is fulfilled or ctx is done. Dropping the
// future (never calling Get) cancels only the wait, not the computation
// already scheduled on the driver thread.
func (f SnapshotFuture) Get(ctx context.Context) (*Snapshot, error) {
	select {
	case s := <-f.ch:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TelemetryDriver owns a background thread that polls its processors,
// routes queued observations into instruments, ticks time-driven state, and
// fulfils snapshot queries.
type TelemetryDriver struct {
	config DriverConfig
	root   *ProcessorMount
	logger *slog.Logger

	pendingMu sync.Mutex
	pending   []snapshotRequest

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  sync.Once
}

// NewTelemetryDriver builds a driver from config. The background thread is
// not started until Start is called.
func NewTelemetryDriver(config DriverConfig) *TelemetryDriver {
	if config.tickInterval <= 0 {
		config.tickInterval = defaultTickInterval
	}

	return &TelemetryDriver{
		config: config,
		root:   NewProcessorMount(config.name),
		logger: config.logOrDiscard(),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// AddProcessor registers p (a *Processor[L] or a *ProcessorMount) with the
// driver. Fails with ErrDuplicateName if its name collides with an
// already-registered processor.
func (d *TelemetryDriver) AddProcessor(p AnyProcessor) error {
	return d.root.AddProcessor(p)
}

// Start launches the background thread. Calling Start more than once has
// no additional effect.
func (d *TelemetryDriver) Start() {
	d.started.Do(func() {
		go d.run()
	})
}

// Snapshot requests a snapshot and returns immediately; fulfilment happens
// on the background thread. Concurrent calls made before the next tick are
// coalesced onto a single computed snapshot.
func (d *TelemetryDriver) Snapshot() SnapshotFuture {
	req := snapshotRequest{result: make(chan *Snapshot, 1)}

	d.pendingMu.Lock()
	d.pending = append(d.pending, req)
	d.pendingMu.Unlock()

	return SnapshotFuture{ch: req.result}
}

// Stop signals the background thread to exit after finishing its current
// tick, and waits for it (bounded by ctx).
func (d *TelemetryDriver) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		close(d.stopCh)
	})

	select {
	case <-d.doneCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("metrix: stop driver %q: %w", d.config.name, ctx.Err())
	}
}

// run is the background thread body: process, evict, snapshot, tick, sleep.
// It exits once the processor set becomes empty, or Stop is called.
func (d *TelemetryDriver) run() {
	defer close(d.doneCh)

	ticker := time.NewTicker(d.config.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopCh:
			d.logger.Debug("metrix: driver stopping", slog.String("driver", d.config.name))

			return
		case now := <-ticker.C:
			d.tick(now)

			if d.root.count() == 0 {
				d.logger.Debug("metrix: driver exiting, no processors remain",
					slog.String("driver", d.config.name))

				return
			}
		}
	}
}

// tick performs one full cycle: drain processors, evict disconnected ones,
// fulfil any pending snapshot, advance time-driven instrument state.
func (d *TelemetryDriver) tick(now time.Time) {
	plan := d.config.strategy.plan(now)
	d.root.process(plan)
	d.fulfilPending(now)
	d.root.tick(now)
}

// fulfilPending computes at most one snapshot per tick and hands the same
// result to every request that arrived before this tick.
func (d *TelemetryDriver) fulfilPending(now time.Time) {
	d.pendingMu.Lock()
	reqs := d.pending
	d.pending = nil
	d.pendingMu.Unlock()

	if len(reqs) == 0 {
		return
	}

	b := NewGroupBuilder(d.config.name)
	d.root.snapshotInto(b, now)
	snap := newSnapshot(b.Build())

	for _, r := range reqs {
		r.result <- snap
	}
}
