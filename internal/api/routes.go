package api

import "net/http"

// Routes wires every API handler onto a ServeMux using method-scoped
// patterns.
func Routes(search *SearchHandlers, hist *HistoryHandlers, healthz *HealthHandlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/search/circles", search.SearchCircles)
	mux.HandleFunc("POST /v1/search/meetups", search.SearchMeetups)

	mux.HandleFunc("GET /v1/history/search", hist.GetSearchHistory)
	mux.HandleFunc("POST /v1/history/search", hist.SaveSearchQuery)
	mux.HandleFunc("POST /v1/interactions", hist.TrackInteraction)

	mux.HandleFunc("GET /health", healthz.Health)
	mux.HandleFunc("GET /ready", healthz.Ready)

	return mux
}
