// Package countdown provides the repeating tick source that drives a round.
package countdown

import (
	"context"
	"sync"
	"time"
)

// DefaultPeriod is the production tick interval.
const DefaultPeriod = time.Second

// TickFunc is called once per period while the timer runs. ctx is
// cancelled when the timer is stopped, so blocking work inside the callback
// should watch it.
type TickFunc func(ctx context.Context)

// Timer is a restartable repeating tick source. At most one tick goroutine
// exists per Timer.
type Timer struct {
	period time.Duration
	onTick TickFunc

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New returns a stopped timer. A non-positive period means DefaultPeriod.
func New(period time.Duration, onTick TickFunc) *Timer {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Timer{period: period, onTick: onTick}
}

// Start launches the tick goroutine. It returns false, and changes nothing,
// when the timer is already running.
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	go t.run(ctx)
	return true
}

// Stop cancels the tick goroutine and reports whether it was running.
// It never waits for an in-flight tick, so it is safe to call from work
// the callback triggered. Calling Stop on a stopped timer is a no-op.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel == nil {
		return false
	}
	t.cancel()
	t.cancel = nil
	return true
}

// Running reports whether Start has been called without a matching Stop.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

func (t *Timer) run(ctx context.Context) {
	ticker := time.NewTicker(t.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			t.onTick(ctx)
		}
	}
}
