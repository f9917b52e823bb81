package ratelim

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Locked is a rate limiter that is safe for concurrent callers of a
// single instance. It counts the calls suppressed since the previous
// run and hands the count to the action that gets through.
type Locked struct {
	mu      sync.Mutex
	lim     *RateLimiter
	skipped int
}

// NewLocked creates a concurrency-safe rate limiter with the given
// cooldown period.
func NewLocked(cooldown time.Duration) *Locked {
	return &Locked{lim: New(cooldown)}
}

// NewLockedWithClock creates a concurrency-safe rate limiter that
// reads time from clk.
func NewLockedWithClock(cooldown time.Duration, clk clock.Clock) *Locked {
	return &Locked{lim: NewWithClock(cooldown, clk)}
}

// Cooldown returns the cooldown period.
func (l *Locked) Cooldown() time.Duration {
	return l.lim.Cooldown()
}

// Run invokes f if the cooldown period has elapsed since the last run,
// passing the number of calls suppressed since then, and reports
// whether f ran. A suppressed call only increments the counter.
func (l *Locked) Run(f func(skipped int)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ran := l.lim.TryRun(func() {
		f(l.skipped)
		l.skipped = 0
	})
	if !ran {
		l.skipped++
	}
	return ran
}
