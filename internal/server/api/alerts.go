// Package api provides the HTTP API handlers for the LensSafe dashboard.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jedawel/lenssafe/internal/store"
)

// defaultAlertLimit caps /api/alerts responses when no limit is given.
const defaultAlertLimit = 50

// AlertsHandler handles HTTP requests for the alert-event log.
type AlertsHandler struct {
	store *store.Store
}

// NewAlertsHandler creates a new AlertsHandler with the given store.
func NewAlertsHandler(s *store.Store) *AlertsHandler {
	return &AlertsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
// Expected path: /api/alerts
func (h *AlertsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type alertResponse struct {
	ID          string `json:"id"`
	TriggeredAt string `json:"triggered_at"`
}

type listAlertsResponse struct {
	Alerts []alertResponse `json:"alerts"`
	Today  int             `json:"today"`
}

// list handles GET /api/alerts and returns recent alerts, newest first.
func (h *AlertsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultAlertLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	alerts, err := h.store.Alerts().ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}

	today, err := h.store.Alerts().CountSince(localMidnight(time.Now()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count alerts")
		return
	}

	response := listAlertsResponse{
		Alerts: make([]alertResponse, 0, len(alerts)),
		Today:  today,
	}
	for _, a := range alerts {
		response.Alerts = append(response.Alerts, alertResponse{
			ID:          a.ID,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// localMidnight returns the start of the day containing t, in t's
// location. Truncating to a UTC day boundary would misplace "today" in
// every other timezone.
func localMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
