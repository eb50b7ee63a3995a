// Package geo provides geolocation utilities for discovery search:
// great-circle distance scoring and coarse geohash encoding used to render
// stable location fingerprints.
package geo

import "math"

// Point represents a geographic coordinate with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// earthRadiusKm is the mean Earth radius used for great-circle distance.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// coordinates given in degrees. The function is pure and symmetric. NaN
// inputs propagate to the result; callers must only pass known coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Distance returns the great-circle distance in kilometers between two points.
func Distance(a, b Point) float64 {
	return Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
