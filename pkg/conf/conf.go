package conf

import (
	"io"
	"time"

	"github.com/burntsushi/toml"
	"github.com/pkg/errors"
)

// Main is the main ratelim pipe config.
type Main struct {
	// The minimum spacing between two forwarded lines.
	CooldownMs uint32

	// -1 turns off the Prometheus server.
	PromPort int

	TermTimeoutSec uint16

	LogLimitInitial    int
	LogLimitThereafter int
	LogLimitWindowSec  int
}

// Cooldown returns the configured cooldown period.
func (m *Main) Cooldown() time.Duration {
	return time.Duration(m.CooldownMs) * time.Millisecond
}

// ReadMain reads the main config.
func ReadMain(r io.Reader) (Main, error) {
	cfg := MakeDefault()

	_, err := toml.DecodeReader(r, &cfg)
	if err != nil {
		return cfg, errors.Wrap(err, "parsing error")
	}
	if cfg.PromPort < -1 {
		return cfg, errors.New("PromPort must be a port number or -1")
	}
	if cfg.LogLimitWindowSec <= 0 {
		return cfg, errors.New("LogLimitWindowSec must be positive")
	}
	if cfg.LogLimitInitial < 0 || cfg.LogLimitThereafter < 0 {
		return cfg, errors.New("log limits can't be negative")
	}

	return cfg, nil
}

// MakeDefault creates configuration with default values.
func MakeDefault() Main {
	return Main{
		CooldownMs: 500,

		PromPort: 9090,

		TermTimeoutSec: 5,

		LogLimitInitial:    10,
		LogLimitThereafter: 1000,
		LogLimitWindowSec:  1,
	}
}
