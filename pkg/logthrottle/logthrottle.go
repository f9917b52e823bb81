// Package logthrottle bounds the frequency of log emission. A Logger
// forwards at most one entry per cooldown period and drops the rest,
// reporting how many entries were dropped in between.
package logthrottle

import (
	"time"

	"github.com/vvv/rate-limiter/pkg/ratelim"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Logger emits at most one entry per cooldown period. An entry that
// gets through carries the number of entries suppressed since the
// previous emission in a "skipped" field.
//
// Safe for concurrent use.
type Logger struct {
	lg      *zap.Logger
	lim     *ratelim.Locked
	dropped *atomic.Int64
}

// New creates a throttled logger emitting through lg.
func New(lg *zap.Logger, cooldown time.Duration) *Logger {
	return newLogger(lg, ratelim.NewLocked(cooldown))
}

func newLogger(lg *zap.Logger, lim *ratelim.Locked) *Logger {
	return &Logger{lg: lg, lim: lim, dropped: atomic.NewInt64(0)}
}

// Info logs the message if the cooldown period has elapsed.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.log(l.lg.Info, msg, fields)
}

// Warn logs the message if the cooldown period has elapsed.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.log(l.lg.Warn, msg, fields)
}

// Error logs the message if the cooldown period has elapsed.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.log(l.lg.Error, msg, fields)
}

// Dropped returns the total number of entries suppressed over the
// logger's lifetime.
func (l *Logger) Dropped() int64 {
	return l.dropped.Load()
}

func (l *Logger) log(emit func(string, ...zap.Field), msg string, fields []zap.Field) {
	ran := l.lim.Run(func(skipped int) {
		emit(msg, append(fields, zap.Int("skipped", skipped))...)
	})
	if !ran {
		l.dropped.Inc()
	}
}
