package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"spend-hq/ganymede/pkg/config"
)

func newTestCollector() *Collector {
	cfg := &config.MetricsConfig{
		Enabled:   true,
		Namespace: "ganymede",
		Subsystem: "policy",
	}
	return NewCollector(cfg, prometheus.NewRegistry())
}

func TestCollector_RecordMutation(t *testing.T) {
	c := newTestCollector()

	c.RecordMutation("add_container", "applied", time.Microsecond)
	c.RecordMutation("add_container", "applied", time.Microsecond)
	c.RecordMutation("add_auto_approve", "rejected", time.Microsecond)

	applied := testutil.ToFloat64(
		c.mutationMetrics.mutationsTotal.WithLabelValues("add_container", "applied"))
	if applied != 2 {
		t.Errorf("mutations_total{add_container,applied} = %v, want 2", applied)
	}
	rejected := testutil.ToFloat64(
		c.mutationMetrics.mutationsTotal.WithLabelValues("add_auto_approve", "rejected"))
	if rejected != 1 {
		t.Errorf("mutations_total{add_auto_approve,rejected} = %v, want 1", rejected)
	}
}

func TestCollector_RecordTranslation(t *testing.T) {
	c := newTestCollector()

	c.RecordTranslation("success", 300*time.Millisecond)
	c.RecordTranslation("error", 10*time.Millisecond)
	c.RecordTranslationStale()

	success := testutil.ToFloat64(
		c.translationMetrics.translationsTotal.WithLabelValues("success"))
	if success != 1 {
		t.Errorf("translations_total{success} = %v, want 1", success)
	}
	stale := testutil.ToFloat64(c.translationMetrics.staleTotal)
	if stale != 1 {
		t.Errorf("translations_stale_total = %v, want 1", stale)
	}
}

func TestCollector_DocumentShape(t *testing.T) {
	c := newTestCollector()

	c.RecordDocumentSave()
	c.UpdateDocumentShape(7, 3, 5)

	if got := testutil.ToFloat64(c.documentMetrics.version); got != 7 {
		t.Errorf("document_version = %v, want 7", got)
	}
	if got := testutil.ToFloat64(c.documentMetrics.containers); got != 3 {
		t.Errorf("document_containers = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.documentMetrics.conditions); got != 5 {
		t.Errorf("document_conditions = %v, want 5", got)
	}
	if got := testutil.ToFloat64(c.documentMetrics.savesTotal); got != 1 {
		t.Errorf("document_saves_total = %v, want 1", got)
	}
}

func TestCollector_DisabledRecordsNothing(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: false}
	c := NewCollector(cfg, prometheus.NewRegistry())

	c.RecordMutation("add_container", "applied", time.Microsecond)
	c.RecordDocumentSave()

	if got := testutil.ToFloat64(c.documentMetrics.savesTotal); got != 0 {
		t.Errorf("document_saves_total = %v, want 0 when disabled", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := newTestCollector()
	c.RecordMutation("set_amount", "applied", time.Microsecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ganymede_policy_mutations_total") {
		t.Error("exposition output missing ganymede_policy_mutations_total")
	}
}
