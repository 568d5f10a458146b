package handlers

import (
	"net/http"
	"strconv"

	"route-surface-service/internal/api/dto"
	"route-surface-service/internal/ports"

	"github.com/sirupsen/logrus"
)

type PlanHandler struct {
	Repo   ports.PlanRepository
	Logger *logrus.Logger
}

// List returns recently stored plan summaries, newest first.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Repo == nil {
		writeError(w, r, http.StatusNotImplemented, "plan persistence is not configured")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	plans, err := h.Repo.ListPlans(r.Context(), limit)
	if err != nil {
		h.Logger.WithError(err).Error("listing stored plans failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromStoredPlans(plans))
}
