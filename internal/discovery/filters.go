package discovery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nexushq/discovery/internal/geo"
)

// SortBy selects the ordering strategy applied after scoring.
type SortBy string

const (
	// SortRelevance orders by descending score. It is the default.
	SortRelevance SortBy = "relevance"
	// SortDistance orders by ascending distance when both results carry
	// one, falling back to descending score otherwise.
	SortDistance SortBy = "distance"
	// SortNewest orders by descending creation time.
	SortNewest SortBy = "newest"
	// SortPopular orders by descending member count (circles) or current
	// attendees (meetups).
	SortPopular SortBy = "popular"
	// SortRecommended orders by descending score; the personalization
	// context has already biased the scores.
	SortRecommended SortBy = "recommended"
)

// DateRange restricts meetups to a window anchored at local midnight of the
// current day. Past meetups are excluded by every range, including Anytime.
type DateRange string

const (
	DateAnytime   DateRange = "anytime"
	DateToday     DateRange = "today"
	DateThisWeek  DateRange = "this_week"
	DateThisMonth DateRange = "this_month"
)

// PriceRange bounds meetup prices inclusively. Callers guarantee Min <= Max.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SearchFilters is the caller-constructed filter set for one ranking call.
// The zero value matches everything at relevance order.
type SearchFilters struct {
	Query          string      `json:"query,omitempty"`
	Categories     []string    `json:"categories,omitempty"`
	DistanceKm     float64     `json:"distance_km,omitempty"`
	SortBy         SortBy      `json:"sort_by,omitempty"`
	ShowOnlineOnly bool        `json:"show_online_only,omitempty"`
	ShowFreeOnly   bool        `json:"show_free_only,omitempty"`
	DateRange      DateRange   `json:"date_range,omitempty"`
	Location       *geo.Point  `json:"location,omitempty"`
	PriceRange     *PriceRange `json:"price_range,omitempty"`
}

// Signature returns a deterministic fingerprint of the filters used as the
// cache key. Categories are sorted and individually quoted so a category
// containing the separator cannot collide with a multi-category filter, and
// the location is rendered as a fixed-precision geohash, so equal filters
// always produce the same string. The personalization context is
// intentionally absent from the signature.
func (f SearchFilters) Signature() string {
	cats := make([]string, len(f.Categories))
	for i, c := range f.Categories {
		cats[i] = strconv.Quote(c)
	}
	sort.Strings(cats)

	var b strings.Builder
	fmt.Fprintf(&b, "q=%s|c=%s|d=%g|s=%s|on=%t|free=%t|dr=%s",
		strings.ToLower(f.Query),
		strings.Join(cats, ","),
		f.DistanceKm,
		f.SortBy,
		f.ShowOnlineOnly,
		f.ShowFreeOnly,
		f.DateRange,
	)
	if f.Location != nil {
		fmt.Fprintf(&b, "|loc=%s", geo.Encode(f.Location.Lat, f.Location.Lng, geo.KeyPrecision))
	}
	if f.PriceRange != nil {
		fmt.Fprintf(&b, "|p=%g-%g", f.PriceRange.Min, f.PriceRange.Max)
	}
	return b.String()
}
