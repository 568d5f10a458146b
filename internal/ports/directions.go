package ports

import (
	"context"
	"route-surface-service/internal/domain"

	"github.com/paulmach/orb"
)

// Contract for retrieving turn-by-turn geometry plus road-surface
// annotations for an ordered coordinate sequence.
type DirectionsProvider interface {
	// Return path geometry and surface index ranges for the given stops,
	// in the same coordinate order as requested. Surface ranges index
	// into the returned geometry's coordinate array. Failures are
	// propagated unchanged as domain.ServiceError.
	Directions(ctx context.Context, coordinates []orb.Point) (*domain.DirectionsResult, error)
}
