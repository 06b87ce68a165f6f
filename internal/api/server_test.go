package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testInfo() Info {
	return Info{
		Provider:         "anthropic",
		Model:            "test-model",
		APIKeyConfigured: true,
		Store:            "memory",
		LearningEnabled:  true,
		Scenarios:        func() int { return 8 },
		NATSConnected:    func() bool { return true },
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := NewServer(8760, testInfo())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["api_key_configured"] != true || body["store_configured"] != true || body["learning_enabled"] != true {
		t.Errorf("unexpected health flags %v", body)
	}
}

func TestHealthEndpoint_NoStore(t *testing.T) {
	info := testInfo()
	info.Store = "none"
	info.LearningEnabled = false
	srv := NewServer(8760, info)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	var body map[string]any
	json.NewDecoder(w.Body).Decode(&body)
	if body["store_configured"] != false || body["learning_enabled"] != false {
		t.Errorf("expected store and learning off, got %v", body)
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := NewServer(8760, testInfo())

	req := httptest.NewRequest("GET", "/api/v1/buddy/status", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["agent"] != "buddy" {
		t.Errorf("expected agent buddy, got %v", body["agent"])
	}
	if body["scenarios"] != float64(8) {
		t.Errorf("expected 8 scenarios, got %v", body["scenarios"])
	}
	if body["nats_connected"] != true {
		t.Errorf("expected nats_connected true, got %v", body["nats_connected"])
	}
}

func TestStatusEndpoint_NilDeps(t *testing.T) {
	srv := NewServer(8760, Info{Store: "none"})

	req := httptest.NewRequest("GET", "/api/v1/buddy/status", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := NewServer(8760, testInfo())

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard CORS origin, got %q", got)
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	srv := NewServer(8760, testInfo())

	req := httptest.NewRequest("GET", "/nonexistent", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	srv := NewServer(0, testInfo())

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("expected Start after Shutdown to return ErrServerClosed, got %v", err)
	}
}
