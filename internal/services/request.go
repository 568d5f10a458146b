package services

import (
	"route-surface-service/internal/domain"
)

// Profile used for the optimization request. The original field vehicles
// are heavy trucks; directions re-run on the car profile.
const optimizationProfile = "driving-hgv"

// BuildRoutingRequest converts canonical points into a vehicle-routing
// request: exactly one vehicle with start = source and end = finalStop,
// and one mandatory job per destination. Job ids are the destination's
// 1-based input position; that id is the only stable link back to the
// original row and survives the optimization response untouched.
func BuildRoutingRequest(source, finalStop domain.CanonicalPoint, destinations []domain.CanonicalPoint) (domain.RoutingRequest, error) {
	if len(destinations) == 0 {
		return domain.RoutingRequest{}, domain.ErrEmptyDestinations
	}

	jobs := make([]domain.Job, 0, len(destinations))
	for i, dest := range destinations {
		jobs = append(jobs, domain.Job{
			ID:       i + 1,
			Location: dest,
			Priority: 1,
		})
	}

	return domain.RoutingRequest{
		Vehicle: domain.Vehicle{
			ID:      1,
			Profile: optimizationProfile,
			Start:   source,
			End:     finalStop,
		},
		Jobs: jobs,
	}, nil
}
