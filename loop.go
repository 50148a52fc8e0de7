package ledshield

import (
	"context"
	"runtime"
	"time"
)

// Step advances the machine and runs the resulting behavior on the caller's
// goroutine
func (d *Dispatcher[S]) Step() {
	d.Advance()()
}

// Run drives the dispatcher, one Step per interval, until ctx is cancelled
func Run[S comparable](ctx context.Context, d *Dispatcher[S], interval time.Duration) error {
	d.logger.Debug("host loop started", "interval", interval, "state", d.currentState)
	err := RunFunc(ctx, interval, d.Step)
	d.logger.Debug("host loop stopped", "state", d.currentState)
	return err
}

// RunFunc calls tick once per interval until ctx is cancelled, and returns
// ctx.Err(). A zero interval ticks continuously, yielding the processor
// between calls. tick runs on the caller's goroutine.
func RunFunc(ctx context.Context, interval time.Duration, tick func()) error {
	if interval <= 0 {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			tick()
			runtime.Gosched()
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tick()
		}
	}
}
