package handler

import (
	"errors"
	"net/http"

	"pmhscreen/internal/service"
	"pmhscreen/internal/transport/rest/middleware"
)

type ProfileHandler struct {
	profileSvc *service.ProfileService
}

func NewProfileHandler(profileSvc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// Get handles GET /v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileSvc.Profile(r.Context(), middleware.GetUserID(r.Context()))
	if errors.Is(err, service.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
