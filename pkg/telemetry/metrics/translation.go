package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"spend-hq/ganymede/pkg/config"
)

// TranslationMetrics tracks metrics related to text-to-rule translation.
//
// Metrics:
//   - ganymede_policy_translations_total: Total translation requests by outcome
//   - ganymede_policy_translation_duration_seconds: End-to-end request duration
//   - ganymede_policy_translations_stale_total: Responses dropped by the last-request-wins gate
type TranslationMetrics struct {
	// Total translation requests
	translationsTotal *prometheus.CounterVec

	// End-to-end translation duration histogram
	translationDuration prometheus.Histogram

	// Stale responses dropped
	staleTotal prometheus.Counter
}

// NewTranslationMetrics creates and registers translation metrics with the
// provided registry.
func NewTranslationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *TranslationMetrics {
	tm := &TranslationMetrics{
		translationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "translations_total",
				Help:      "Total number of translation requests",
			},
			[]string{"outcome"},
		),

		translationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "translation_duration_seconds",
				Help:      "End-to-end duration of translation requests in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),

		staleTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "translations_stale_total",
				Help:      "Translation responses dropped because a newer request was issued",
			},
		),
	}

	registry.MustRegister(
		tm.translationsTotal,
		tm.translationDuration,
		tm.staleTotal,
	)

	return tm
}

// Record records a completed translation request.
func (tm *TranslationMetrics) Record(outcome string, duration time.Duration) {
	tm.translationsTotal.WithLabelValues(outcome).Inc()
	tm.translationDuration.Observe(duration.Seconds())
}

// RecordStale records a translation response dropped as stale.
func (tm *TranslationMetrics) RecordStale() {
	tm.staleTotal.Inc()
}
