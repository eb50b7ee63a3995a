package geo

import "strings"

// KeyPrecision is the geohash precision used when a location becomes part of
// a cache-key fingerprint. Nine characters resolve to under five meters, so
// equal filter locations always collapse to the same string while the key
// stays compact and free of float formatting concerns.
const KeyPrecision = 9

// base32 is the geohash base32 alphabet (excludes 'a', 'i', 'l', 'o').
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// Encode encodes latitude and longitude into a geohash string of the given
// precision using the standard interleaved bisection algorithm.
func Encode(lat, lng float64, precision int) string {
	if precision < 1 {
		precision = KeyPrecision
	}

	latRange := [2]float64{-90.0, 90.0}
	lngRange := [2]float64{-180.0, 180.0}

	var hash strings.Builder
	hash.Grow(precision)

	bits := 0
	var ch uint

	even := true
	for hash.Len() < precision {
		if even {
			mid := (lngRange[0] + lngRange[1]) / 2
			if lng > mid {
				ch |= 1 << (4 - bits)
				lngRange[0] = mid
			} else {
				lngRange[1] = mid
			}
		} else {
			mid := (latRange[0] + latRange[1]) / 2
			if lat > mid {
				ch |= 1 << (4 - bits)
				latRange[0] = mid
			} else {
				latRange[1] = mid
			}
		}

		even = !even
		bits++

		if bits == 5 {
			hash.WriteByte(base32[ch])
			bits = 0
			ch = 0
		}
	}

	return hash.String()
}
