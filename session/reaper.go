package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/convodesk/convodesk/logging"
)

// DefaultReapInterval is the default cadence of the background expiry sweep.
const DefaultReapInterval = 30 * time.Minute

// Reaper runs Manager.Reap on a periodic cadence, decoupled from request
// handling. Sweeps are skippable: if one is still running when the next
// tick fires, the tick is dropped.
type Reaper struct {
	manager  *Manager
	interval time.Duration
	logger   logging.Logger

	started  atomic.Bool
	running  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// ReaperOptions configure a Reaper.
type ReaperOptions struct {
	Interval time.Duration
	Logger   logging.Logger
}

// NewReaper constructs a Reaper over the given manager.
func NewReaper(manager *Manager, optFns ...func(o *ReaperOptions)) *Reaper {
	opts := ReaperOptions{Interval: DefaultReapInterval}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Reaper{
		manager:  manager,
		interval: opts.Interval,
		logger:   logging.OrNoOp(opts.Logger),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. It returns immediately; the loop runs
// until Stop is called or ctx is cancelled. Calling Start more than once
// has no effect.
func (r *Reaper) Start(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stop:
				return
			case <-ticker.C:
				r.RunOnce(ctx)
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for it to exit. Stopping a
// reaper that was never started returns immediately.
func (r *Reaper) Stop() {
	if !r.started.Load() {
		return
	}
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

// RunOnce performs a single sweep. Safe to call from an external trigger;
// overlapping sweeps are skipped.
func (r *Reaper) RunOnce(ctx context.Context) {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Debug("reap sweep already in progress, skipping")
		return
	}
	defer r.running.Store(false)

	start := time.Now()
	count, err := r.manager.Reap(ctx)
	if err != nil {
		r.logger.Error("reap sweep failed: %v", err)
		return
	}
	if dl, ok := r.logger.(*logging.DeskLogger); ok {
		dl.LogReap(count, time.Since(start))
		return
	}
	r.logger.Debug("reap sweep completed reaped=%d duration=%s", count, time.Since(start))
}
