package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/nexushq/discovery/internal/health"
)

// HealthHandlers provides health and readiness endpoints.
type HealthHandlers struct {
	checkers map[string]health.Checker
}

// NewHealthHandlers creates health handlers over the given dependency
// checkers. Checkers may be empty; readiness then only proves the process
// is serving.
func NewHealthHandlers(checkers map[string]health.Checker) *HealthHandlers {
	return &HealthHandlers{checkers: checkers}
}

// HealthResponse represents the JSON response for health checks.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

// Health handles GET /health (liveness probe). If we can respond, we are
// alive.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{
		Status:    "healthy",
		Checks:    map[string]string{"runtime": "ok"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready (readiness probe). Checks external dependencies
// and returns 503 if any is unavailable.
func (h *HealthHandlers) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checkers))
	for name := range h.checkers {
		checks[name] = "ok"
	}

	failures := health.Check(ctx, h.checkers)
	for name, err := range failures {
		checks[name] = err.Error()
	}

	response := HealthResponse{
		Status:    "ready",
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if len(failures) > 0 {
		response.Status = "unavailable"
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := json.NewEncoder(w).Encode(response); err != nil {
			slog.Error("failed to encode readiness response", "error", err)
		}
		return
	}

	writeJSON(w, response)
}
