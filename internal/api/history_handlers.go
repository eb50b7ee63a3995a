package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nexushq/discovery/internal/history"
	"github.com/nexushq/discovery/internal/middleware"
)

// HistoryHandlers holds dependencies for the history HTTP handlers.
type HistoryHandlers struct {
	history *history.Store
	logger  *slog.Logger
}

// NewHistoryHandlers creates a new HistoryHandlers instance.
func NewHistoryHandlers(hist *history.Store, logger *slog.Logger) *HistoryHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryHandlers{
		history: hist,
		logger:  logger,
	}
}

// SearchHistoryResponse is the response body for GET /v1/history/search.
type SearchHistoryResponse struct {
	Queries []string `json:"queries"`
}

// GetSearchHistory handles GET /v1/history/search?user_id=...
// A broken or missing history is reported as an empty list.
func (h *HistoryHandlers) GetSearchHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeValidationError(w, r, "user_id query parameter is required")
		return
	}

	queries := h.history.GetSearchHistory(r.Context(), userID)
	if queries == nil {
		queries = []string{}
	}
	writeJSON(w, SearchHistoryResponse{Queries: queries})
}

// SaveSearchRequest is the request body for POST /v1/history/search.
type SaveSearchRequest struct {
	UserID string `json:"user_id"`
	Query  string `json:"query"`
}

// SaveSearchQuery handles POST /v1/history/search.
func (h *HistoryHandlers) SaveSearchQuery(w http.ResponseWriter, r *http.Request) {
	var req SaveSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, r, "Invalid JSON request body")
		return
	}
	if req.UserID == "" {
		writeValidationError(w, r, "user_id is required")
		return
	}
	if req.Query == "" {
		writeValidationError(w, r, "query is required")
		return
	}

	if err := h.history.SaveSearchQuery(r.Context(), req.UserID, req.Query); err != nil {
		h.logger.Error("failed to save search query", "user_id", req.UserID, "error", err)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to save search query")
		return
	}

	writeJSON(w, SearchHistoryResponse{Queries: h.history.GetSearchHistory(r.Context(), req.UserID)})
}

// TrackInteractionRequest is the request body for POST /v1/interactions.
type TrackInteractionRequest struct {
	UserID string       `json:"user_id"`
	Kind   history.Kind `json:"kind"`
	ID     string       `json:"id"`
}

// TrackInteractionResponse is the response body for POST /v1/interactions.
type TrackInteractionResponse struct {
	Status string `json:"status"`
}

// TrackInteraction handles POST /v1/interactions.
func (h *HistoryHandlers) TrackInteraction(w http.ResponseWriter, r *http.Request) {
	var req TrackInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, r, "Invalid JSON request body")
		return
	}
	if req.UserID == "" || req.ID == "" {
		writeValidationError(w, r, "user_id and id are required")
		return
	}

	if err := h.history.TrackInteraction(r.Context(), req.UserID, req.Kind, req.ID); err != nil {
		if errors.Is(err, history.ErrUnknownKind) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeUnknownKind)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeUnknownKind, "Unknown interaction kind")
			return
		}
		h.logger.Error("failed to track interaction", "user_id", req.UserID, "error", err)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to track interaction")
		return
	}

	writeJSON(w, TrackInteractionResponse{Status: "recorded"})
}
