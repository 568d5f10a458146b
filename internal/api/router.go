package api

import (
	"net/http"

	"route-surface-service/internal/api/handlers"
	"route-surface-service/internal/ports"
	"route-surface-service/internal/services"

	"github.com/sirupsen/logrus"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware
// of concrete adapters). repo may be nil when persistence is disabled.
func NewRouter(planner *services.Planner, repo ports.PlanRepository, logger *logrus.Logger) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		Planner: planner,
		Repo:    repo,
		Logger:  logger,
	}
	planHandler := &handlers.PlanHandler{
		Repo:   repo,
		Logger: logger,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes/plan", routeHandler.Plan)
	mux.HandleFunc("/plans", planHandler.List)

	return loggingMiddleware(mux, logger)
}
