// Package ratelim provides a minimal time-gated invocation throttle.
// A limiter runs a caller-supplied action only if at least the
// configured cooldown period has elapsed since the action last ran and
// drops the invocation otherwise. Dropped invocations are not queued,
// deferred or batched.
package ratelim

import (
	"time"

	"github.com/benbjohnson/clock"
)

// RateLimiter allows to run an operation at most once per the cooldown
// period. The first call always runs the operation.
//
// A RateLimiter assumes one caller at a time. Two goroutines calling
// Run on the same instance may both observe eligibility and both run
// the action. Use Locked when an instance is shared.
type RateLimiter struct {
	cooldown time.Duration
	start    time.Time
	clock    clock.Clock
}

// New creates a rate limiter with the given cooldown period. Any
// non-negative cooldown is accepted; with a zero cooldown the action
// runs on every call.
func New(cooldown time.Duration) *RateLimiter {
	return NewWithClock(cooldown, clock.New())
}

// NewWithClock creates a rate limiter that reads time from clk.
func NewWithClock(cooldown time.Duration, clk clock.Clock) *RateLimiter {
	return &RateLimiter{cooldown: cooldown, clock: clk}
}

// Cooldown returns the cooldown period.
func (l *RateLimiter) Cooldown() time.Duration {
	return l.cooldown
}

// StartNow (re)starts the cooldown period without running anything.
// It returns the previous start time, zero if the limiter has not
// started yet.
func (l *RateLimiter) StartNow() time.Time {
	prev := l.start
	l.start = l.clock.Now()
	return prev
}

// Run invokes f if the cooldown period has elapsed since the last run
// and does nothing otherwise.
//
// f runs synchronously on the calling goroutine before Run returns.
// A panic in f propagates to the caller and the attempt does not count
// as a run: the next call is eligible immediately.
func (l *RateLimiter) Run(f func()) {
	l.TryRun(f)
}

// TryRun invokes f if the cooldown period has elapsed and reports
// whether it ran. When f is suppressed, wait is the time remaining
// until the limiter is cold again.
func (l *RateLimiter) TryRun(f func()) (wait time.Duration, ran bool) {
	now := l.clock.Now()
	if !l.start.IsZero() {
		if elapsed := now.Sub(l.start); elapsed < l.cooldown {
			return l.cooldown - elapsed, false
		}
	}
	f()
	// The pre-invocation reading, so that the cooldown measures time
	// between attempts, not between completions.
	l.start = now
	return 0, true
}

// RunElapsed invokes f with the time elapsed since the previous run if
// the cooldown period has elapsed. Unlike Run, the first call only
// starts the limiter; f is not invoked.
func (l *RateLimiter) RunElapsed(f func(elapsed time.Duration)) {
	if l.start.IsZero() {
		l.start = l.clock.Now()
		return
	}
	now := l.clock.Now()
	if elapsed := now.Sub(l.start); elapsed >= l.cooldown {
		f(elapsed)
		l.start = now
	}
}
