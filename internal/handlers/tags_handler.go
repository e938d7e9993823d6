package handlers

import (
	"net/http"

	"familytrips/internal/models"
)

// Tags handles GET /api/tags
func Tags(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, models.DefaultVocabulary())
}
