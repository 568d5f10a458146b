package ports

import (
	"context"
	"route-surface-service/internal/domain"
)

// Contract for solving a vehicle-routing problem with an external
// optimization service.
type Optimizer interface {
	// Return the service's step sequence in visiting order. When the
	// service rejects a submitted point, implementations classify the
	// failure into domain.UnroutableLocationError naming that point;
	// every other failure is propagated as domain.ServiceError with the
	// original message. Implementations never retry.
	Optimize(ctx context.Context, req domain.RoutingRequest) ([]domain.VisitStep, error)
}
