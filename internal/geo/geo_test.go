package geo

import (
	"math"
	"testing"
)

// TestHaversine_ZeroDistance verifies the distance from any point to itself is zero.
func TestHaversine_ZeroDistance(t *testing.T) {
	points := []Point{
		{Lat: 0, Lng: 0},
		{Lat: 37.7749, Lng: -122.4194},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 90, Lng: 0},
	}

	for _, p := range points {
		if d := Haversine(p.Lat, p.Lng, p.Lat, p.Lng); d != 0 {
			t.Errorf("expected zero distance at (%f, %f), got %f", p.Lat, p.Lng, d)
		}
	}
}

// TestHaversine_Symmetry verifies Haversine(a, b) == Haversine(b, a).
func TestHaversine_Symmetry(t *testing.T) {
	a := Point{Lat: 37.7749, Lng: -122.4194} // San Francisco
	b := Point{Lat: 34.0522, Lng: -118.2437} // Los Angeles

	forward := Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
	backward := Haversine(b.Lat, b.Lng, a.Lat, a.Lng)

	if forward != backward {
		t.Errorf("expected symmetric distance, got %f and %f", forward, backward)
	}
}

// TestHaversine_KnownDistances checks against well-known city pair distances.
func TestHaversine_KnownDistances(t *testing.T) {
	tests := []struct {
		name       string
		from, to   Point
		expectedKm float64
		tolerance  float64
	}{
		{
			name:       "San Francisco to Los Angeles",
			from:       Point{Lat: 37.7749, Lng: -122.4194},
			to:         Point{Lat: 34.0522, Lng: -118.2437},
			expectedKm: 559,
			tolerance:  5,
		},
		{
			name:       "London to Paris",
			from:       Point{Lat: 51.5074, Lng: -0.1278},
			to:         Point{Lat: 48.8566, Lng: 2.3522},
			expectedKm: 344,
			tolerance:  5,
		},
		{
			name:       "adjacent city blocks",
			from:       Point{Lat: 37.78, Lng: -122.42},
			to:         Point{Lat: 37.77, Lng: -122.41},
			expectedKm: 1.4,
			tolerance:  0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Distance(tt.from, tt.to)
			if math.Abs(d-tt.expectedKm) > tt.tolerance {
				t.Errorf("expected ~%f km, got %f km", tt.expectedKm, d)
			}
		})
	}
}

// TestHaversine_NaNPropagates verifies NaN inputs produce NaN output.
func TestHaversine_NaNPropagates(t *testing.T) {
	if d := Haversine(math.NaN(), 0, 37.77, -122.41); !math.IsNaN(d) {
		t.Errorf("expected NaN result for NaN input, got %f", d)
	}
}

// TestEncode verifies geohash encoding against known reference values.
func TestEncode(t *testing.T) {
	tests := []struct {
		name      string
		lat, lng  float64
		precision int
		expected  string
	}{
		{
			name:      "Jutland reference point",
			lat:       57.64911,
			lng:       10.40744,
			precision: 11,
			expected:  "u4pruydqqvj",
		},
		{
			name:      "origin",
			lat:       0,
			lng:       0,
			precision: 4,
			expected:  "7zzz",
		},
		{
			name:      "San Francisco at key precision",
			lat:       37.7749,
			lng:       -122.4194,
			precision: KeyPrecision,
			expected:  "9q8yyk8yt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.lat, tt.lng, tt.precision); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestEncode_Deterministic verifies equal coordinates always produce equal hashes.
func TestEncode_Deterministic(t *testing.T) {
	a := Encode(37.7749, -122.4194, KeyPrecision)
	b := Encode(37.7749, -122.4194, KeyPrecision)
	if a != b {
		t.Errorf("expected deterministic encoding, got %q and %q", a, b)
	}
}

// TestEncode_InvalidPrecision verifies the precision floor falls back to KeyPrecision.
func TestEncode_InvalidPrecision(t *testing.T) {
	if got := Encode(37.7749, -122.4194, 0); len(got) != KeyPrecision {
		t.Errorf("expected fallback to %d characters, got %q", KeyPrecision, got)
	}
}
