package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nexushq/discovery/internal/discovery"
	"github.com/nexushq/discovery/internal/geo"
	"github.com/nexushq/discovery/internal/history"
	"github.com/nexushq/discovery/internal/middleware"
)

// SearchHandlers holds dependencies for the ranking HTTP handlers.
type SearchHandlers struct {
	svc     *discovery.Service
	history *history.Store
	logger  *slog.Logger
}

// NewSearchHandlers creates a new SearchHandlers instance.
func NewSearchHandlers(svc *discovery.Service, hist *history.Store, logger *slog.Logger) *SearchHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandlers{
		svc:     svc,
		history: hist,
		logger:  logger,
	}
}

// SearchRequest is the request body for both search endpoints. UserID and
// Profile are optional; when present they personalize the ranking and the
// query is recorded in the user's search history.
type SearchRequest struct {
	Filters discovery.SearchFilters `json:"filters"`
	UserID  string                  `json:"user_id,omitempty"`
	Profile SearchProfile           `json:"profile,omitempty"`
}

// SearchProfile carries the caller-side personalization inputs.
type SearchProfile struct {
	Interests         []string   `json:"interests,omitempty"`
	Location          *geo.Point `json:"location,omitempty"`
	JoinedCircleIDs   []string   `json:"joined_circle_ids,omitempty"`
	AttendedMeetupIDs []string   `json:"attended_meetup_ids,omitempty"`
}

// CircleSearchResponse is the response body for POST /v1/search/circles.
type CircleSearchResponse struct {
	Results  []discovery.SearchResult[discovery.Circle] `json:"results"`
	Count    int                                        `json:"count"`
	Degraded bool                                       `json:"degraded,omitempty"`
}

// MeetupSearchResponse is the response body for POST /v1/search/meetups.
type MeetupSearchResponse struct {
	Results  []discovery.SearchResult[discovery.Meetup] `json:"results"`
	Count    int                                        `json:"count"`
	Degraded bool                                       `json:"degraded,omitempty"`
}

func validSortBy(s discovery.SortBy) bool {
	switch s {
	case "", discovery.SortRelevance, discovery.SortDistance, discovery.SortNewest,
		discovery.SortPopular, discovery.SortRecommended:
		return true
	}
	return false
}

func validDateRange(d discovery.DateRange) bool {
	switch d {
	case "", discovery.DateAnytime, discovery.DateToday,
		discovery.DateThisWeek, discovery.DateThisMonth:
		return true
	}
	return false
}

// decodeSearchRequest parses and validates the shared request body. A nil
// return means the error response has already been written.
func (h *SearchHandlers) decodeSearchRequest(w http.ResponseWriter, r *http.Request) *SearchRequest {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, r, "Invalid JSON request body")
		return nil
	}

	f := req.Filters
	if !validSortBy(f.SortBy) {
		writeValidationError(w, r, "Unknown sort_by value")
		return nil
	}
	if !validDateRange(f.DateRange) {
		writeValidationError(w, r, "Unknown date_range value")
		return nil
	}
	if f.PriceRange != nil && f.PriceRange.Min > f.PriceRange.Max {
		writeValidationError(w, r, "price_range min must not exceed max")
		return nil
	}
	if f.Location != nil {
		if f.Location.Lat < -90 || f.Location.Lat > 90 {
			writeValidationError(w, r, "Latitude must be between -90 and 90")
			return nil
		}
		if f.Location.Lng < -180 || f.Location.Lng > 180 {
			writeValidationError(w, r, "Longitude must be between -180 and 180")
			return nil
		}
	}

	return &req
}

// context builds the personalization context for a request, or nil for an
// anonymous call.
func (h *SearchHandlers) context(r *http.Request, req *SearchRequest) *discovery.RecommendationContext {
	if req.UserID == "" {
		return nil
	}
	return h.history.BuildContext(r.Context(), req.UserID, history.Profile{
		Interests:         req.Profile.Interests,
		Location:          req.Profile.Location,
		JoinedCircleIDs:   req.Profile.JoinedCircleIDs,
		AttendedMeetupIDs: req.Profile.AttendedMeetupIDs,
	})
}

// recordQuery saves the search query to the user's history. Failures are
// logged and never affect the search response.
func (h *SearchHandlers) recordQuery(r *http.Request, req *SearchRequest) {
	if req.UserID == "" || req.Filters.Query == "" {
		return
	}
	if err := h.history.SaveSearchQuery(r.Context(), req.UserID, req.Filters.Query); err != nil {
		h.logger.Warn("failed to save search query", "user_id", req.UserID, "error", err)
	}
}

// SearchCircles handles POST /v1/search/circles.
// A record store outage degrades to an empty 200 response rather than
// failing the call.
func (h *SearchHandlers) SearchCircles(w http.ResponseWriter, r *http.Request) {
	req := h.decodeSearchRequest(w, r)
	if req == nil {
		return
	}

	if req.UserID != "" {
		middleware.UpdateResponseContext(w, middleware.SetUserID(r.Context(), req.UserID))
	}

	filters := h.svc.ResolveLocation(r.Context(), req.Filters)
	rc := h.context(r, req)

	results, err := h.svc.SearchCircles(r.Context(), filters, rc)
	degraded := false
	if err != nil {
		if !errors.Is(err, discovery.ErrStoreUnavailable) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
			WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Search failed")
			return
		}
		degraded = true
	}

	h.recordQuery(r, req)

	if results == nil {
		results = []discovery.SearchResult[discovery.Circle]{}
	}
	writeJSON(w, CircleSearchResponse{
		Results:  results,
		Count:    len(results),
		Degraded: degraded,
	})
}

// SearchMeetups handles POST /v1/search/meetups.
func (h *SearchHandlers) SearchMeetups(w http.ResponseWriter, r *http.Request) {
	req := h.decodeSearchRequest(w, r)
	if req == nil {
		return
	}

	if req.UserID != "" {
		middleware.UpdateResponseContext(w, middleware.SetUserID(r.Context(), req.UserID))
	}

	filters := h.svc.ResolveLocation(r.Context(), req.Filters)
	rc := h.context(r, req)

	results, err := h.svc.SearchMeetups(r.Context(), filters, rc)
	degraded := false
	if err != nil {
		if !errors.Is(err, discovery.ErrStoreUnavailable) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
			WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Search failed")
			return
		}
		degraded = true
	}

	h.recordQuery(r, req)

	if results == nil {
		results = []discovery.SearchResult[discovery.Meetup]{}
	}
	writeJSON(w, MeetupSearchResponse{
		Results:  results,
		Count:    len(results),
		Degraded: degraded,
	})
}
