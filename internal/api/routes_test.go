package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nexushq/discovery/internal/health"
	"github.com/nexushq/discovery/internal/history"
)

func newTestRouter(checkers map[string]health.Checker) *http.ServeMux {
	search, _ := newTestHandlers(testStore())
	hist := NewHistoryHandlers(history.NewStore(history.NewInMemoryKV(), nil), nil)
	return Routes(search, hist, NewHealthHandlers(checkers))
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(nil)

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodPost, "/v1/search/circles", "{}", http.StatusOK},
		{http.MethodPost, "/v1/search/meetups", "{}", http.StatusOK},
		{http.MethodGet, "/v1/history/search?user_id=u1", "", http.StatusOK},
		{http.MethodPost, "/v1/history/search", `{"user_id":"u1","query":"q"}`, http.StatusOK},
		{http.MethodPost, "/v1/interactions", `{"user_id":"u1","kind":"circle_view","id":"c1"}`, http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/ready", "", http.StatusOK},
		{http.MethodGet, "/v1/search/circles", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

type brokenChecker struct{}

func (brokenChecker) HealthCheck(context.Context) error {
	return errors.New("unreachable")
}

func TestReadyReportsFailures(t *testing.T) {
	router := newTestRouter(map[string]health.Checker{"db": brokenChecker{}})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Status != "unavailable" {
		t.Errorf("status = %q, want unavailable", resp.Status)
	}
	if resp.Checks["db"] != "unreachable" {
		t.Errorf("db check = %q, want unreachable", resp.Checks["db"])
	}
}
