package discovery

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricSearchesTotal     = "discovery_searches_total"
	MetricSearchDuration    = "discovery_search_duration_seconds"
	MetricCacheLookupsTotal = "discovery_cache_lookups_total"
)

// Entity labels for search metrics.
const (
	EntityCircle = "circle"
	EntityMeetup = "meetup"
)

// Status labels for search completion.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Cache lookup outcome labels.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics contains Prometheus metrics for ranking pipeline operations.
// All operations are thread-safe.
type Metrics struct {
	searchesTotal  *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSearchesTotal,
				Help: "Total number of ranking calls by entity and status",
			},
			[]string{"entity", "status"},
		),
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricSearchDuration,
				Help:    "Histogram of ranking call duration in seconds by entity",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"entity"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCacheLookupsTotal,
				Help: "Total number of result cache lookups by entity and outcome",
			},
			[]string{"entity", "outcome"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.searchesTotal,
		m.searchDuration,
		m.cacheLookups,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveSearch records one completed ranking call.
func (m *Metrics) ObserveSearch(entity, status string, seconds float64) {
	m.searchesTotal.WithLabelValues(entity, status).Inc()
	m.searchDuration.WithLabelValues(entity).Observe(seconds)
}

// IncCacheLookup records one result cache lookup.
func (m *Metrics) IncCacheLookup(entity, outcome string) {
	m.cacheLookups.WithLabelValues(entity, outcome).Inc()
}
