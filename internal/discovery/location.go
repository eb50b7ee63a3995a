package discovery

import (
	"context"

	"github.com/nexushq/discovery/internal/geo"
)

// LocationProvider reports the caller's current location. A nil result is a
// valid, non-error outcome: permission denied, no fix, or no provider.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) *geo.Point
}

// StaticLocationProvider always reports a fixed location. Useful for tests
// and for deployments serving a single region.
type StaticLocationProvider struct {
	Point geo.Point
}

// CurrentLocation returns a copy of the fixed location.
func (p StaticLocationProvider) CurrentLocation(context.Context) *geo.Point {
	pt := p.Point
	return &pt
}

// NoLocationProvider never reports a location.
type NoLocationProvider struct{}

// CurrentLocation always returns nil.
func (NoLocationProvider) CurrentLocation(context.Context) *geo.Point {
	return nil
}
