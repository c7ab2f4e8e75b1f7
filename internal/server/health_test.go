package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLivenessHandler(t *testing.T) {
	h := NewHealthChecker(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Status != healthStatusOK {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
}

func TestReadinessHandler_Ready(t *testing.T) {
	h := NewHealthChecker(nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadinessHandler_NotReady(t *testing.T) {
	h := NewHealthChecker(nil)
	h.SetReady(false)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Checks["ready"] != healthStatusNotReady {
		t.Errorf("expected ready check 'not ready', got %q", resp.Checks["ready"])
	}
}

func TestReadinessHandler_ShuttingDown(t *testing.T) {
	sc, err := NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	h := NewHealthChecker(sc)

	if err := sc.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestServerContext_ShutdownIdempotent(t *testing.T) {
	sc, err := NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}

	if sc.IsShutdown() {
		t.Error("new context must not be shut down")
	}
	if err := sc.Shutdown(); err != nil {
		t.Errorf("first shutdown: %v", err)
	}
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second shutdown: %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("context must report shut down")
	}
	if sc.Context().Err() == nil {
		t.Error("context must be cancelled after shutdown")
	}
}
