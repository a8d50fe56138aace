package handler

import (
	"net/http"

	"pmhscreen/internal/service"
)

type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Snapshot handles GET /v1/analytics
func (h *AnalyticsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.analyticsSvc.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analytics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
