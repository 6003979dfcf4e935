package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"spend-hq/ganymede/pkg/config"
)

// DocumentMetrics tracks metrics describing the live policy document.
//
// Metrics:
//   - ganymede_policy_document_version: Current document version
//   - ganymede_policy_document_saves_total: Document versions written to storage
//   - ganymede_policy_document_containers: Containers in the current document
//   - ganymede_policy_document_conditions: Conditions in the current document
type DocumentMetrics struct {
	version    prometheus.Gauge
	savesTotal prometheus.Counter
	containers prometheus.Gauge
	conditions prometheus.Gauge
}

// NewDocumentMetrics creates and registers document metrics with the
// provided registry.
func NewDocumentMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *DocumentMetrics {
	dm := &DocumentMetrics{
		version: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "document_version",
				Help:      "Current policy document version",
			},
		),

		savesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "document_saves_total",
				Help:      "Total number of document versions written to storage",
			},
		),

		containers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "document_containers",
				Help:      "Number of rule containers in the current document",
			},
		),

		conditions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "document_conditions",
				Help:      "Number of conditions in the current document",
			},
		),
	}

	registry.MustRegister(
		dm.version,
		dm.savesTotal,
		dm.containers,
		dm.conditions,
	)

	return dm
}

// RecordSave records a document version written to storage.
func (dm *DocumentMetrics) RecordSave() {
	dm.savesTotal.Inc()
}

// UpdateShape updates the gauges describing the current document.
func (dm *DocumentMetrics) UpdateShape(version int64, containers, conditions int) {
	dm.version.Set(float64(version))
	dm.containers.Set(float64(containers))
	dm.conditions.Set(float64(conditions))
}
