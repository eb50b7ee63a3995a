package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nexushq/discovery/internal/ranking"
	"github.com/nexushq/discovery/internal/tracing"
)

// CacheTTL is the fixed lifetime of a cached result set. Entries past the
// TTL are treated as misses and recomputed.
const CacheTTL = 5 * time.Minute

// ErrStoreUnavailable wraps record-store failures. A failed fetch degrades
// the ranking call to an empty result set; the error is returned alongside
// so callers that care can observe the degradation with errors.Is.
var ErrStoreUnavailable = errors.New("record store unavailable")

// Service is the ranking pipeline. It owns the result caches, the scoring
// weights, and references to its collaborators, and is safe for concurrent
// use. Construct one per application and pass it around; there is no
// package-level state.
type Service struct {
	store    RecordStore
	location LocationProvider
	weights  *ranking.Weights
	metrics  *Metrics
	logger   *slog.Logger
	limit    int
	now      func() time.Time

	circles *resultCache[Circle]
	meetups *resultCache[Meetup]
}

// Option configures a Service.
type Option func(*Service)

// WithWeights replaces the default scoring weights, typically with a loaded
// calibration.
func WithWeights(w *ranking.Weights) Option {
	return func(s *Service) {
		if w != nil {
			s.weights = w
		}
	}
}

// WithLocationProvider wires the optional current-location collaborator used
// by ResolveLocation.
func WithLocationProvider(p LocationProvider) Option {
	return func(s *Service) { s.location = p }
}

// WithCandidateLimit overrides the bounded candidate page size.
func WithCandidateLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the wall clock. Intended for tests exercising cache
// expiry and date windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a ranking pipeline over the given record store.
func NewService(store RecordStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		weights: ranking.DefaultWeights(),
		metrics: NewMetrics(),
		logger:  slog.Default(),
		limit:   DefaultCandidateLimit,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.circles = newResultCache[Circle](CacheTTL, s.now)
	s.meetups = newResultCache[Meetup](CacheTTL, s.now)

	return s
}

// Metrics returns the pipeline's metrics for registration.
func (s *Service) Metrics() *Metrics {
	return s.metrics
}

// ResolveLocation fills in the current location when the caller did not set
// one and a location provider is wired. Absence of a location remains a
// valid outcome.
func (s *Service) ResolveLocation(ctx context.Context, f SearchFilters) SearchFilters {
	if f.Location != nil || s.location == nil {
		return f
	}
	f.Location = s.location.CurrentLocation(ctx)
	return f
}

// SearchCircles scores every candidate circle against the filters, drops
// non-positive scores, sorts by the requested strategy, and returns the
// ranked list. Results are cached by filter signature for CacheTTL; the
// personalization context biases scores but is not part of the cache
// identity. A record-store failure yields an empty list and a wrapped
// ErrStoreUnavailable.
func (s *Service) SearchCircles(ctx context.Context, f SearchFilters, rc *RecommendationContext) ([]SearchResult[Circle], error) {
	ctx, end := tracing.StartSearchSpan(ctx, EntityCircle)
	start := s.now()

	key := "circles|" + f.Signature()
	if cached := s.circles.get(key); cached != nil {
		s.metrics.IncCacheLookup(EntityCircle, CacheHit)
		s.metrics.ObserveSearch(EntityCircle, StatusOK, s.now().Sub(start).Seconds())
		end(nil, len(cached))
		return cached, nil
	}
	s.metrics.IncCacheLookup(EntityCircle, CacheMiss)

	candidates, err := s.store.FetchCircles(ctx, s.limit)
	if err != nil {
		s.logger.Warn("circle fetch failed, returning no results", "error", err)
		s.metrics.ObserveSearch(EntityCircle, StatusDegraded, s.now().Sub(start).Seconds())
		end(err, 0)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	results := make([]SearchResult[Circle], 0, len(candidates))
	for _, c := range candidates {
		if r := ScoreCircle(c, f, rc, s.weights); r.Score > 0 {
			results = append(results, r)
		}
	}

	sortResults(results, f.SortBy,
		func(c Circle) time.Time { return c.CreatedAt },
		func(c Circle) int { return c.MemberCount },
	)

	s.circles.set(key, results)
	s.metrics.ObserveSearch(EntityCircle, StatusOK, s.now().Sub(start).Seconds())
	end(nil, len(results))
	return results, nil
}

// SearchMeetups is the meetup counterpart of SearchCircles. Meetup date
// windows are evaluated against the service clock at call time.
func (s *Service) SearchMeetups(ctx context.Context, f SearchFilters, rc *RecommendationContext) ([]SearchResult[Meetup], error) {
	ctx, end := tracing.StartSearchSpan(ctx, EntityMeetup)
	start := s.now()

	key := "meetups|" + f.Signature()
	if cached := s.meetups.get(key); cached != nil {
		s.metrics.IncCacheLookup(EntityMeetup, CacheHit)
		s.metrics.ObserveSearch(EntityMeetup, StatusOK, s.now().Sub(start).Seconds())
		end(nil, len(cached))
		return cached, nil
	}
	s.metrics.IncCacheLookup(EntityMeetup, CacheMiss)

	candidates, err := s.store.FetchMeetups(ctx, "", s.limit)
	if err != nil {
		s.logger.Warn("meetup fetch failed, returning no results", "error", err)
		s.metrics.ObserveSearch(EntityMeetup, StatusDegraded, s.now().Sub(start).Seconds())
		end(err, 0)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	now := s.now()
	results := make([]SearchResult[Meetup], 0, len(candidates))
	for _, m := range candidates {
		if r := ScoreMeetup(m, f, rc, s.weights, now); r.Score > 0 {
			results = append(results, r)
		}
	}

	sortResults(results, f.SortBy,
		func(m Meetup) time.Time { return m.CreatedAt },
		func(m Meetup) int { return m.CurrentAttendees },
	)

	s.meetups.set(key, results)
	s.metrics.ObserveSearch(EntityMeetup, StatusOK, s.now().Sub(start).Seconds())
	end(nil, len(results))
	return results, nil
}

// ClearCaches drops every cached result set for both entity kinds.
func (s *Service) ClearCaches() {
	s.circles.clear()
	s.meetups.clear()
}
