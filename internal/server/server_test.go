package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jedawel/lenssafe/internal/alert"
	"github.com/jedawel/lenssafe/internal/app"
	"github.com/jedawel/lenssafe/internal/store"
)

func newTestServer(t *testing.T, config Config) *Server {
	t.Helper()
	return New(config)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
	if body["uptime"] == "" {
		t.Error("uptime field is empty")
	}
}

func TestHealthEndpoint_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestStatusEndpoint(t *testing.T) {
	status := app.Status{
		Enabled:      true,
		FaceDetected: true,
		Confirmed:    true,
		Outcome:      alert.OutcomeDispatched,
		FPS:          29.7,
		Timestamp:    time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC),
	}
	srv := newTestServer(t, Config{
		Status: func() app.Status { return status },
	})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got app.Status
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !got.Enabled || !got.FaceDetected || !got.Confirmed {
		t.Errorf("response = %+v, want enabled, face detected, confirmed", got)
	}
	if got.Outcome != alert.OutcomeDispatched {
		t.Errorf("outcome = %q, want %q", got.Outcome, alert.OutcomeDispatched)
	}
}

func TestStatusEndpoint_DisabledWithoutProvider(t *testing.T) {
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestMonitoringEndpoint(t *testing.T) {
	var gotEnabled *bool
	srv := newTestServer(t, Config{
		SetEnabled: func(enabled bool) { gotEnabled = &enabled },
	})

	req := httptest.NewRequest(http.MethodPut, "/api/monitoring", strings.NewReader(`{"enabled": false}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if gotEnabled == nil {
		t.Fatal("SetEnabled was not called")
	}
	if *gotEnabled {
		t.Error("SetEnabled called with true, want false")
	}
}

func TestMonitoringEndpoint_InvalidBody(t *testing.T) {
	srv := newTestServer(t, Config{
		SetEnabled: func(bool) { t.Error("SetEnabled called for invalid body") },
	})

	req := httptest.NewRequest(http.MethodPut, "/api/monitoring", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestMonitoringEndpoint_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, Config{
		SetEnabled: func(bool) {},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/monitoring", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestAlertsEndpoint(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "lenssafe.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer s.Close()

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		if _, err := s.Alerts().Create(now.Add(-time.Duration(i) * time.Minute)); err != nil {
			t.Fatalf("creating alert %d: %v", i, err)
		}
	}

	srv := newTestServer(t, Config{Store: s})

	req := httptest.NewRequest(http.MethodGet, "/api/alerts?limit=2", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Alerts []struct {
			ID          string `json:"id"`
			TriggeredAt string `json:"triggered_at"`
		} `json:"alerts"`
		Today int `json:"today"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Alerts) != 2 {
		t.Errorf("got %d alerts, want 2", len(body.Alerts))
	}
	for _, a := range body.Alerts {
		if _, err := time.Parse(time.RFC3339, a.TriggeredAt); err != nil {
			t.Errorf("triggered_at %q is not RFC 3339: %v", a.TriggeredAt, err)
		}
	}
}

func TestAlertsEndpoint_InvalidLimit(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "lenssafe.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer s.Close()

	srv := newTestServer(t, Config{Store: s})

	req := httptest.NewRequest(http.MethodGet, "/api/alerts?limit=zero", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestEventsPublish(t *testing.T) {
	srv := newTestServer(t, Config{})

	// Publishing with no connected clients must not block or panic.
	srv.Events().Publish("status", map[string]bool{"confirmed": true})

	if n := srv.Events().ClientCount(); n != 0 {
		t.Errorf("client count = %d, want 0", n)
	}
}
