package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChecker_ReadinessAllHealthy(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("storage", func(ctx context.Context) error { return nil })
	c.RegisterCheck("audit", func(ctx context.Context) error { return nil })

	status := c.CheckReadiness(context.Background())

	if status.Status != "ready" {
		t.Errorf("status = %q, want ready", status.Status)
	}
	if len(status.Checks) != 2 {
		t.Fatalf("len(Checks) = %d, want 2", len(status.Checks))
	}
	for name, result := range status.Checks {
		if result.Status != "ok" {
			t.Errorf("check %q = %q, want ok", name, result.Status)
		}
	}
}

func TestChecker_ReadinessDegraded(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("storage", func(ctx context.Context) error { return nil })
	c.RegisterCheck("audit", func(ctx context.Context) error {
		return errors.New("database locked")
	})

	status := c.CheckReadiness(context.Background())

	if status.Status != "degraded" {
		t.Errorf("status = %q, want degraded", status.Status)
	}
	if status.Checks["audit"].Message != "database locked" {
		t.Errorf("audit message = %q, want the check error", status.Checks["audit"].Message)
	}
}

func TestChecker_ReadinessNoChecks(t *testing.T) {
	status := New(time.Second).CheckReadiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("status with no checks = %q, want ready", status.Status)
	}
}

func TestChecker_CheckTimeout(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.RegisterCheck("slow", func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	status := c.CheckReadiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("status = %q, want degraded on timeout", status.Status)
	}
}

func TestChecker_UnregisterCheck(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("storage", func(ctx context.Context) error { return nil })
	c.UnregisterCheck("storage")
	if c.CheckCount() != 0 {
		t.Errorf("CheckCount() = %d, want 0", c.CheckCount())
	}
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	New(time.Second).LivenessHandler()(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("status = %q, want ok", status.Status)
	}
}

func TestReadinessHandler_Degraded(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("storage", func(ctx context.Context) error {
		return errors.New("unavailable")
	})

	rec := httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest("GET", "/readyz", nil))

	if rec.Code != 503 {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandlers_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	New(time.Second).LivenessHandler()(rec, httptest.NewRequest("POST", "/healthz", nil))
	if rec.Code != 405 {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.3", "abc123", "2026-01-01")(rec, httptest.NewRequest("GET", "/version", nil))

	var info VersionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" {
		t.Errorf("info = %+v, want version and commit preserved", info)
	}
	if info.GoVersion == "" {
		t.Error("missing go version")
	}
}
