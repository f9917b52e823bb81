package ratelim

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Timer measures the time between Start and Stop and hands it to a
// callback.
type Timer struct {
	started time.Time
	clock   clock.Clock
	onStop  func(elapsed time.Duration)
}

// StartTimer starts a timer that calls onStop with the elapsed time
// when stopped:
//
//	t := ratelim.StartTimer(func(elapsed time.Duration) {
//		lg.Info("done", zap.Duration("took", elapsed))
//	})
//	defer t.Stop()
func StartTimer(onStop func(elapsed time.Duration)) *Timer {
	return startTimer(onStop, clock.New())
}

func startTimer(onStop func(elapsed time.Duration), clk clock.Clock) *Timer {
	return &Timer{started: clk.Now(), clock: clk, onStop: onStop}
}

// Stop stops the timer and invokes the callback. Calls after the first
// do nothing.
func (t *Timer) Stop() {
	if t.onStop == nil {
		return
	}
	t.onStop(t.clock.Now().Sub(t.started))
	t.onStop = nil
}
