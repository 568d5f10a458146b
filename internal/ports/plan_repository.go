package ports

import (
	"context"
	"route-surface-service/internal/domain"
	"time"
)

// StoredPlan is a persisted summary of a computed route.
type StoredPlan struct {
	ID               string
	DestIDField      string
	DestinationCount int
	TotalLengthKm    float64
	SurfaceStats     []domain.SurfaceStatistic
	CreatedAt        time.Time
}

// Port: a boundary for persisting computed route plans.
type PlanRepository interface {
	// Persist a computed route and return its assigned id.
	SavePlan(ctx context.Context, result *domain.RouteResult) (string, error)
	// List recently stored plans, newest first.
	ListPlans(ctx context.Context, limit int) ([]StoredPlan, error)
}
