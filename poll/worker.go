// Package poll implements the periodic reload worker that drives live playlist refreshes.
//
// The worker fires a reload action on a strict cadence: each cycle is anchored
// to the intended fire time instead of the observed wake-up time, so fetch and
// processing time never accumulates into schedule drift.
package poll

import (
	"errors"
	"sync"
	"time"

	"github.com/livesan-cli/livesan/log"
)

// DefaultInterval is the reload cadence used when a source provides no hint.
const DefaultInterval = 6 * time.Second

// recoverable matches faults a scheduled cycle may survive, such as a
// transport error during a playlist fetch.
type recoverable interface {
	Recoverable() bool
}

// Worker drives a fixed-cadence periodic reload against a changing resource.
// One goroutine runs the loop; Stop may be called from any other goroutine and
// is observed within one scheduling tick.
type Worker struct {
	interval time.Duration
	reload   func() error

	// last is the fire-time anchor. It only advances forward and is touched
	// exclusively by the loop goroutine after Start.
	last time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	err      error

	// Time hooks, replaced in tests.
	now   func() time.Time
	timer func(d time.Duration) <-chan time.Time
}

// NewWorker constructs a worker invoking reload every interval.
// A negative interval selects DefaultInterval; an interval of exactly zero is
// honored and reloads on every cycle without waiting.
func NewWorker(interval time.Duration, reload func() error) *Worker {
	if interval < 0 {
		interval = DefaultInterval
	}

	return &Worker{
		interval: interval,
		reload:   reload,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		now:      time.Now,
		timer: func(d time.Duration) <-chan time.Time {
			return time.After(d)
		},
	}
}

// Interval returns the configured reload cadence.
func (w *Worker) Interval() time.Duration {
	return w.interval
}

// Start launches the worker loop in its own goroutine.
func (w *Worker) Start() {
	w.last = w.now()
	go w.run()
}

// Stop signals the loop to terminate. It is idempotent, safe to call from any
// goroutine, and guarantees no further reload fires after it is observed.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
}

// Done is closed once the loop has terminated, whether by Stop or by a fatal
// reload error.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err returns the fatal error that terminated the loop, if any.
// Only valid after Done is closed.
func (w *Worker) Err() error {
	return w.err
}

func (w *Worker) run() {
	defer close(w.done)
	for w.waitAndReload() {
	}
}

// waitAndReload pauses until the next intended fire time has been reached,
// then invokes the reload action. It reports whether the loop should continue.
func (w *Worker) waitAndReload() bool {
	// Exclude fetch and processing time from the overall reload time and
	// reload in a strict time interval.
	completed := w.now()
	elapsed := completed.Sub(w.last)
	wait := w.interval - elapsed
	if wait < 0 {
		wait = 0
	}

	select {
	case <-w.stop:
		return false
	case <-w.timer(wait):
	}

	// A stop racing the timer still wins; reload must never fire after it.
	select {
	case <-w.stop:
		return false
	default:
	}

	if wait > 0 {
		// Anchor to the timestamp from before the wait rather than the
		// post-sleep clock, to prevent a shifting time offset caused by
		// execution time.
		w.last = completed.Add(wait)
	} else {
		// Already behind schedule; the interval has shifted, resynchronize.
		w.last = w.now()
	}

	if err := w.reload(); err != nil {
		var rec recoverable
		if errors.As(err, &rec) && rec.Recoverable() {
			log.Warnf("Reloading failed: %v", err)
			return true
		}

		w.err = err
		return false
	}

	return true
}
