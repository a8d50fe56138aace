package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"pmhscreen/internal/model"
	"pmhscreen/internal/service"
	"pmhscreen/internal/transport/rest/middleware"
)

const maxSubmissionBytes = 64 << 10

// ScreeningHandler handles screening submission and result endpoints
type ScreeningHandler struct {
	screeningSvc *service.ScreeningService
}

func NewScreeningHandler(screeningSvc *service.ScreeningService) *ScreeningHandler {
	return &ScreeningHandler{screeningSvc: screeningSvc}
}

type submitRequest struct {
	Responses map[string]interface{} `json:"responses"`
}

// SubmitResponse is returned for every classified submission
type SubmitResponse struct {
	RiskResult  model.RiskResult    `json:"risk_result"`
	Routing     model.RoutingResult `json:"routing"`
	Stored      bool                `json:"stored"`
	ScreeningID string              `json:"screening_id,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// Submit handles POST /v1/screenings
func (h *ScreeningHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmissionBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	raw, err := model.RawAnswers(req.Responses)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.screeningSvc.Submit(r.Context(), middleware.GetUserID(r.Context()), raw)
	if errors.Is(err, model.ErrInvalidAnswer) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "screening failed")
		return
	}

	resp := SubmitResponse{
		RiskResult:  result.RiskResult,
		Routing:     result.Routing,
		Stored:      result.Stored,
		ScreeningID: result.ScreeningID,
	}
	if !result.Stored {
		resp.Error = "screening was classified but could not be saved"
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// History handles GET /v1/screenings
func (h *ScreeningHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.screeningSvc.History(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load screenings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"screenings": records})
}

// Latest handles GET /v1/screenings/latest
func (h *ScreeningHandler) Latest(w http.ResponseWriter, r *http.Request) {
	rec, err := h.screeningSvc.Latest(r.Context(), middleware.GetUserID(r.Context()))
	if errors.Is(err, service.ErrNoScreenings) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load screening")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
