package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"spend-hq/ganymede/pkg/config"
)

// Collector is the orchestrator for all Prometheus metrics in Ganymede.
// It manages metric registration and provides a unified interface for
// recording metrics across all components.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	mutationMetrics    *MutationMetrics
	translationMetrics *TranslationMetrics
	documentMetrics    *DocumentMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "ganymede"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "policy"
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.mutationMetrics = NewMutationMetrics(cfg, registry)
	c.translationMetrics = NewTranslationMetrics(cfg, registry)
	c.documentMetrics = NewDocumentMetrics(cfg, registry)

	return c
}

// RecordMutation records a dispatched mutation command.
//
// Parameters:
//   - command: the operation name (e.g. "add_container", "set_amount")
//   - outcome: "applied" or "rejected"
//   - duration: how long the engine took
func (c *Collector) RecordMutation(command, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.mutationMetrics.Record(command, outcome, duration)
}

// RecordTranslation records a completed translation request.
//
// Parameters:
//   - outcome: "success" or "error"
//   - duration: end-to-end request duration
func (c *Collector) RecordTranslation(outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.translationMetrics.Record(outcome, duration)
}

// RecordTranslationStale records a translation response dropped because a
// newer request had been issued.
func (c *Collector) RecordTranslationStale() {
	if !c.config.Enabled {
		return
	}
	c.translationMetrics.RecordStale()
}

// RecordDocumentSave records a document version written to storage.
func (c *Collector) RecordDocumentSave() {
	if !c.config.Enabled {
		return
	}
	c.documentMetrics.RecordSave()
}

// UpdateDocumentShape updates the gauges describing the current document.
func (c *Collector) UpdateDocumentShape(version int64, containers, conditions int) {
	if !c.config.Enabled {
		return
	}
	c.documentMetrics.UpdateShape(version, containers, conditions)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
