package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"route-surface-service/internal/api/dto"
	"route-surface-service/internal/domain"
	"route-surface-service/internal/ports"
	"route-surface-service/internal/services"

	"github.com/sirupsen/logrus"
)

type RouteHandler struct {
	Planner *services.Planner
	Repo    ports.PlanRepository // nil disables persistence
	Logger  *logrus.Logger
}

// Plan runs the full route-computation pipeline for one request and,
// when a repository is configured, persists the result.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRouteRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if strings.TrimSpace(req.DestIDField) == "" {
		writeError(w, r, http.StatusBadRequest, "dest_id_field is required")
		return
	}
	if len(req.Source) == 0 || len(req.FinalStop) == 0 {
		writeError(w, r, http.StatusBadRequest, "source and final_stop must each contain one row")
		return
	}

	planReq := services.PlanRequest{
		Source:       dto.TableFromRows(req.Source),
		Destinations: dto.TableFromRows(req.Destinations),
		FinalStop:    dto.TableFromRows(req.FinalStop),
		DestIDField:  req.DestIDField,
	}

	result, err := h.Planner.PlanOptimalRoute(r.Context(), planReq)
	if err != nil {
		h.Logger.WithError(err).Warn("route planning failed")
		writeError(w, r, statusForError(err), err.Error())
		return
	}

	planID := ""
	if h.Repo != nil {
		id, saveErr := h.Repo.SavePlan(r.Context(), result)
		if saveErr != nil {
			// Persistence is best-effort; the computed route is still returned.
			h.Logger.WithError(saveErr).Error("saving computed plan failed")
		} else {
			planID = id
		}
	}

	writeJSON(w, r, http.StatusOK, dto.FromRouteResult(result, planID))
}

// statusForError maps the pipeline's typed errors onto HTTP statuses.
// Error messages are human-readable and pass through for display.
func statusForError(err error) int {
	var missingColumn *domain.MissingColumnError
	var unroutable *domain.UnroutableLocationError
	var serviceErr *domain.ServiceError

	switch {
	case errors.As(err, &missingColumn), errors.Is(err, domain.ErrEmptyDestinations):
		return http.StatusBadRequest
	case errors.As(err, &unroutable):
		return http.StatusUnprocessableEntity
	case errors.As(err, &serviceErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
