package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dd0wney/cluso-router/pkg/store"
)

func TestWorstStatusWins(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("ok", func() Check {
		return Check{Name: "ok", Status: StatusHealthy}
	})
	hc.RegisterCheck("slow", func() Check {
		return Check{Name: "slow", Status: StatusDegraded}
	})

	resp := hc.Check()
	if resp.Status != StatusDegraded {
		t.Errorf("expected degraded overall, got %v", resp.Status)
	}

	hc.RegisterCheck("down", func() Check {
		return Check{Name: "down", Status: StatusUnhealthy}
	})
	resp = hc.Check()
	if resp.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy overall, got %v", resp.Status)
	}
	if len(resp.Checks) != 3 {
		t.Errorf("expected 3 checks in the response, got %d", len(resp.Checks))
	}
}

func TestNoChecksIsHealthy(t *testing.T) {
	hc := NewHealthChecker()
	if resp := hc.Check(); resp.Status != StatusHealthy {
		t.Errorf("an empty checker reports healthy, got %v", resp.Status)
	}
}

func TestReadinessIsSeparate(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("live_only", func() Check {
		return Check{Name: "live_only", Status: StatusUnhealthy}
	})
	hc.RegisterReadinessCheck("ready_only", func() Check {
		return Check{Name: "ready_only", Status: StatusHealthy}
	})

	if resp := hc.CheckReadiness(); resp.Status != StatusHealthy {
		t.Errorf("readiness must ignore liveness checks, got %v", resp.Status)
	}
}

func TestDataDirCheck(t *testing.T) {
	check := DataDirCheck(t.TempDir())()
	if check.Status != StatusHealthy {
		t.Errorf("writable dir: got %v (%s)", check.Status, check.Message)
	}

	check = DataDirCheck("/nonexistent/router-data")()
	if check.Status != StatusUnhealthy {
		t.Errorf("missing dir: got %v", check.Status)
	}
}

type stubStore struct {
	err error
}

func (s stubStore) Save(context.Context, string, []store.Record) error { return s.err }

func (s stubStore) Load(context.Context, string) ([]store.Record, error) {
	return nil, s.err
}

func TestStoreCheck(t *testing.T) {
	if check := StoreCheck(stubStore{err: store.ErrNotFound})(); check.Status != StatusHealthy {
		t.Errorf("not-found probe is healthy, got %v (%s)", check.Status, check.Message)
	}
	if check := StoreCheck(stubStore{err: errors.New("connection refused")})(); check.Status != StatusUnhealthy {
		t.Errorf("store error is unhealthy, got %v", check.Status)
	}
}

func TestConsumersCheck(t *testing.T) {
	if check := ConsumersCheck(func() bool { return true })(); check.Status != StatusHealthy {
		t.Errorf("running consumers: got %v", check.Status)
	}
	if check := ConsumersCheck(func() bool { return false })(); check.Status != StatusUnhealthy {
		t.Errorf("stopped consumers: got %v", check.Status)
	}
}

func TestHTTPHandlerStatusCodes(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("ok", func() Check {
		return Check{Name: "ok", Status: StatusHealthy}
	})

	rec := httptest.NewRecorder()
	hc.HTTPHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthy: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	hc.RegisterCheck("down", func() Check {
		return Check{Name: "down", Status: StatusUnhealthy}
	})
	rec = httptest.NewRecorder()
	hc.HTTPHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy: got %d", rec.Code)
	}
}

func TestReadinessHandlerDegradedIsNotReady(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterReadinessCheck("warming", func() Check {
		return Check{Name: "warming", Status: StatusDegraded}
	})

	rec := httptest.NewRecorder()
	hc.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("degraded readiness: got %d", rec.Code)
	}
}
