package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"spend-hq/ganymede/pkg/config"
)

// MutationMetrics tracks metrics related to policy mutation commands.
//
// Metrics:
//   - ganymede_policy_mutations_total: Total mutation commands by command and outcome
//   - ganymede_policy_mutation_duration_seconds: Mutation dispatch duration
type MutationMetrics struct {
	// Total mutation commands
	mutationsTotal *prometheus.CounterVec

	// Mutation dispatch duration histogram
	mutationDuration *prometheus.HistogramVec
}

// NewMutationMetrics creates and registers mutation metrics with the
// provided registry.
func NewMutationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *MutationMetrics {
	mm := &MutationMetrics{
		mutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "mutations_total",
				Help:      "Total number of mutation commands dispatched",
			},
			[]string{"command", "outcome"},
		),

		mutationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "mutation_duration_seconds",
				Help:      "Duration of mutation dispatch in seconds",
				// Mutations are pure in-memory transformations (< 1ms)
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 12), // 1µs to 2ms
			},
			[]string{"command"},
		),
	}

	registry.MustRegister(
		mm.mutationsTotal,
		mm.mutationDuration,
	)

	return mm
}

// Record records a dispatched mutation command.
//
// Parameters:
//   - command: the operation name (e.g. "add_container")
//   - outcome: "applied" or "rejected"
//   - duration: time taken to dispatch the command
func (mm *MutationMetrics) Record(command, outcome string, duration time.Duration) {
	mm.mutationsTotal.WithLabelValues(command, outcome).Inc()
	mm.mutationDuration.WithLabelValues(command).Observe(duration.Seconds())
}
