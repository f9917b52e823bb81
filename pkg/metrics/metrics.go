package metrics

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

// Prom is the set of Prometheus metrics.
type Prom struct {
	InLines      prometheus.Counter
	OutLines     prometheus.Counter
	DroppedLines prometheus.Counter

	Version *prometheus.CounterVec
}

// New creates a new set of metrics.
// This does not include metrics registration.
func New() *Prom {
	return &Prom{
		InLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratelim",
			Name:      "in_lines_total",
			Help:      "Incoming lines counter.",
		}),
		OutLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratelim",
			Name:      "out_lines_total",
			Help:      "Lines forwarded to the output.",
		}),
		DroppedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratelim",
			Name:      "dropped_lines_total",
			Help:      "Lines dropped because they arrived inside the cooldown period.",
		}),
		Version: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ratelim",
			Name:      "version",
			Help:      "Version info in label. Value should be always 1.",
		}, []string{"version"}),
	}
}

// Register registers the metrics. It fatally fails and exits if metrics fail to register.
// Meant to be called from main and fail completely if something goes wrong.
func Register(m *Prom) {
	err := prometheus.Register(m.InLines)
	if err != nil {
		log.Fatalf("error registering the in_lines_total metric: %v", err)
	}

	err = prometheus.Register(m.OutLines)
	if err != nil {
		log.Fatalf("error registering the out_lines_total metric: %v", err)
	}

	err = prometheus.Register(m.DroppedLines)
	if err != nil {
		log.Fatalf("error registering the dropped_lines_total metric: %v", err)
	}

	err = prometheus.Register(m.Version)
	if err != nil {
		log.Fatalf("error registering the version metric: %v", err)
	}
}
