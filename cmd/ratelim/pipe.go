package main

import (
	"bufio"
	"io"

	"github.com/vvv/rate-limiter/pkg/conf"
	"github.com/vvv/rate-limiter/pkg/logthrottle"
	"github.com/vvv/rate-limiter/pkg/metrics"
	"github.com/vvv/rate-limiter/pkg/ratelim"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// pipe forwards at most one line per cooldown period from r to w and
// drops the rest. It returns when r is drained or stop is closed.
func pipe(r io.Reader, w io.Writer, cfg *conf.Main, stop chan struct{}, lg *zap.Logger, ms *metrics.Prom) error {
	lim := ratelim.New(cfg.Cooldown())
	dropLg := logthrottle.New(lg, cfg.Cooldown())

	out := bufio.NewWriter(w)

	var in, forwarded uint64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-stop:
			return nil
		default:
		}

		in++
		ms.InLines.Inc()

		line := scanner.Bytes()
		var werr error
		wait, ran := lim.TryRun(func() {
			if _, werr = out.Write(line); werr == nil {
				if werr = out.WriteByte('\n'); werr == nil {
					werr = out.Flush()
				}
			}
		})
		if werr != nil {
			return errors.Wrap(werr, "error writing output")
		}
		if ran {
			forwarded++
			ms.OutLines.Inc()
		} else {
			ms.DroppedLines.Inc()
			dropLg.Info("dropping lines inside the cooldown period",
				zap.Duration("wait", wait))
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "error reading input")
	}

	lg.Info("input drained",
		zap.Uint64("in", in),
		zap.Uint64("forwarded", forwarded),
		zap.Uint64("dropped", in-forwarded))
	return nil
}
