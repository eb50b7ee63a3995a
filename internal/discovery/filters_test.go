package discovery

import (
	"strings"
	"testing"

	"github.com/nexushq/discovery/internal/geo"
)

func TestSignatureDeterministic(t *testing.T) {
	t.Run("category order does not matter", func(t *testing.T) {
		a := SearchFilters{Categories: []string{"Music", "Art", "Technology"}}
		b := SearchFilters{Categories: []string{"Technology", "Music", "Art"}}
		if a.Signature() != b.Signature() {
			t.Errorf("signatures differ:\n%s\n%s", a.Signature(), b.Signature())
		}
	})

	t.Run("query case does not matter", func(t *testing.T) {
		a := SearchFilters{Query: "Jazz"}
		b := SearchFilters{Query: "jazz"}
		if a.Signature() != b.Signature() {
			t.Errorf("signatures differ:\n%s\n%s", a.Signature(), b.Signature())
		}
	})

	t.Run("sorting does not mutate the filters", func(t *testing.T) {
		f := SearchFilters{Categories: []string{"Music", "Art"}}
		f.Signature()
		if f.Categories[0] != "Music" {
			t.Errorf("Categories mutated: %v", f.Categories)
		}
	})
}

func TestSignatureDistinguishesFilters(t *testing.T) {
	base := SearchFilters{}
	variants := map[string]SearchFilters{
		"query":      {Query: "jazz"},
		"categories": {Categories: []string{"Music"}},
		"distance":   {DistanceKm: 25},
		"sort":       {SortBy: SortNewest},
		"online":     {ShowOnlineOnly: true},
		"free":       {ShowFreeOnly: true},
		"date range": {DateRange: DateThisWeek},
		"location":   {Location: &geo.Point{Lat: 37.7749, Lng: -122.4194}},
		"price":      {PriceRange: &PriceRange{Min: 0, Max: 15}},
	}

	seen := map[string]string{base.Signature(): "base"}
	for name, f := range variants {
		sig := f.Signature()
		if prev, dup := seen[sig]; dup {
			t.Errorf("%q and %q share signature %s", name, prev, sig)
		}
		seen[sig] = name
	}
}

func TestSignatureCategorySeparatorCollision(t *testing.T) {
	// A category containing the join separator must not collide with the
	// equivalent multi-category filter.
	a := SearchFilters{Categories: []string{"a,b"}}
	b := SearchFilters{Categories: []string{"a", "b"}}
	if a.Signature() == b.Signature() {
		t.Errorf("distinct category sets share signature %s", a.Signature())
	}
}

func TestSignatureLocationPrecision(t *testing.T) {
	// Nearby but distinct points should produce distinct keys at the
	// fixed geohash precision.
	a := SearchFilters{Location: &geo.Point{Lat: 37.7749, Lng: -122.4194}}
	b := SearchFilters{Location: &geo.Point{Lat: 37.7849, Lng: -122.4194}}
	if a.Signature() == b.Signature() {
		t.Errorf("distinct locations share signature %s", a.Signature())
	}
	if !strings.Contains(a.Signature(), "|loc=") {
		t.Errorf("signature %q missing location segment", a.Signature())
	}
}
