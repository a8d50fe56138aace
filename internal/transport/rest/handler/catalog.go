package handler

import (
	"net/http"

	"pmhscreen/internal/catalog"
	"pmhscreen/internal/model"
	"pmhscreen/internal/scoring"
)

// CatalogHandler serves the questionnaire and reference tables
type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

type questionsResponse struct {
	Version   string           `json:"version"`
	Sections  []string         `json:"sections"`
	Questions []model.Question `json:"questions"`
}

// Questions handles GET /v1/questions
func (h *CatalogHandler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, questionsResponse{
		Version:   h.catalog.Version(),
		Sections:  h.catalog.Sections(),
		Questions: h.catalog.ListQuestions(),
	})
}

// Resources handles GET /v1/resources
func (h *CatalogHandler) Resources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]model.CrisisResource{
		"crisis_resources": h.catalog.CrisisResources(),
	})
}

// CareSettings handles GET /v1/care-settings
func (h *CatalogHandler) CareSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"care_settings": scoring.CareSettings(),
		"fallback":      scoring.NoRegularProvider,
	})
}
