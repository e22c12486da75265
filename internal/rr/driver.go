package rr

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Driver appends one simulated sample per interval to a series.
type Driver struct {
	series   *RollingSeries
	source   *Source
	interval time.Duration
	onAppend func(Sample)
	log      logrus.FieldLogger

	mu      sync.Mutex
	tick    uint64
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithOnAppend registers fn to run after every append, on the driver
// goroutine. fn must not block.
func WithOnAppend(fn func(Sample)) DriverOption {
	return func(d *Driver) { d.onAppend = fn }
}

// WithLogger sets the driver logger.
func WithLogger(l logrus.FieldLogger) DriverOption {
	return func(d *Driver) { d.log = l }
}

// WithStartTick sets the first tick the driver simulates.
func WithStartTick(t uint64) DriverOption {
	return func(d *Driver) { d.tick = t }
}

// NewDriver creates a stopped driver.
func NewDriver(series *RollingSeries, source *Source, interval time.Duration, opts ...DriverOption) *Driver {
	d := &Driver{
		series:   series,
		source:   source,
		interval: interval,
		log:      logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Start launches the tick loop. Calling Start on a running driver does
// nothing. Cancelling ctx stops the loop as Stop would.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running = true

	d.log.WithField("tick", d.tick).Debug("simulation started")
	go d.loop(ctx, d.done)
}

// Stop halts the loop and waits for it to exit, so no append is in flight
// once it returns.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	cancel, done := d.cancel, d.done
	d.mu.Unlock()

	cancel()
	<-done
	d.log.WithField("tick", d.Tick()).Debug("simulation stopped")
}

// Running reports whether the loop is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Tick returns the next tick to be simulated.
func (d *Driver) Tick() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tick
}

// Step simulates a single tick synchronously.
func (d *Driver) Step() Sample {
	d.mu.Lock()
	t := d.tick
	d.tick++
	d.mu.Unlock()

	s := d.source.Simulate(t)
	d.series.Append(s)
	if d.onAppend != nil {
		d.onAppend(s)
	}
	return s
}

func (d *Driver) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		d.mu.Lock()
		if d.done == done {
			d.running = false
		}
		d.mu.Unlock()
	}()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Stop may have raced with the ticker.
			if ctx.Err() != nil {
				return
			}
			d.Step()
		}
	}
}
