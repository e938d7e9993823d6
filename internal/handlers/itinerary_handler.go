package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"familytrips/internal/models"
	"familytrips/internal/service"
	"familytrips/internal/validation"
)

// ItineraryService is the itinerary behaviour the handlers depend on
type ItineraryService interface {
	Match(ctx context.Context, q service.MatchQuery) (*service.MatchResult, error)
	Get(ctx context.Context, id int64) (*models.Itinerary, error)
	Create(ctx context.Context, in models.ItineraryInput) (*models.Itinerary, error)
	Update(ctx context.Context, id int64, in models.ItineraryInput) (*models.Itinerary, error)
	Delete(ctx context.Context, id int64) error
}

// ItineraryHandler serves the matcher and the catalog endpoints
type ItineraryHandler struct {
	itineraries ItineraryService
}

// NewItineraryHandler creates a new itinerary handler
func NewItineraryHandler(itineraries ItineraryService) *ItineraryHandler {
	return &ItineraryHandler{itineraries: itineraries}
}

// List handles GET /api/itineraries
func (h *ItineraryHandler) List(w http.ResponseWriter, r *http.Request) {
	q, verr := parseMatchQuery(r)
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	result, err := h.itineraries.Match(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, err, "failed to match itineraries")
		return
	}

	items := result.Items
	if items == nil {
		items = []models.Itinerary{}
	}
	resp := APIResponse{Success: true, Data: items}
	if result.Paged() {
		resp.Meta = &Meta{Pagination: &Pagination{
			Total:  result.Total,
			Limit:  result.Limit,
			Offset: result.Offset,
		}}
	}
	respondJSON(w, r, http.StatusOK, resp)
}

// Get handles GET /api/itineraries/{id}
func (h *ItineraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", MsgInvalidItineraryID)
	if !ok {
		return
	}

	it, err := h.itineraries.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "failed to get itinerary")
		return
	}
	respondSuccess(w, r, http.StatusOK, it)
}

// Create handles POST /api/itineraries
func (h *ItineraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.ItineraryInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondBadJSON(w, r, err)
		return
	}

	it, err := h.itineraries.Create(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err, "failed to create itinerary")
		return
	}
	respondSuccess(w, r, http.StatusCreated, it)
}

// Update handles PUT /api/itineraries/{id}
func (h *ItineraryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", MsgInvalidItineraryID)
	if !ok {
		return
	}

	var in models.ItineraryInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondBadJSON(w, r, err)
		return
	}

	it, err := h.itineraries.Update(r.Context(), id, in)
	if err != nil {
		respondServiceError(w, r, err, "failed to update itinerary")
		return
	}
	respondSuccess(w, r, http.StatusOK, it)
}

// Delete handles DELETE /api/itineraries/{id}
func (h *ItineraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", MsgInvalidItineraryID)
	if !ok {
		return
	}

	if err := h.itineraries.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "failed to delete itinerary")
		return
	}
	respondJSON(w, r, http.StatusOK, APIResponse{Success: true, Message: "Itinerary deleted"})
}

// parseMatchQuery reads the matcher inputs from the query string.
// Empty values count as absent; malformed numbers are reported per parameter.
func parseMatchQuery(r *http.Request) (service.MatchQuery, *validation.Error) {
	values := r.URL.Query()
	verr := &validation.Error{}

	q := service.MatchQuery{
		DeviceID: values.Get("device_id"),
		Tags:     models.ParseTagList(values.Get("tags")),
	}
	if q.DeviceID == "" {
		q.DeviceID = values.Get("deviceId")
	}

	q.MinPrice = parseFloatParam(values.Get("minPrice"), "minPrice", verr)
	q.MaxPrice = parseFloatParam(values.Get("maxPrice"), "maxPrice", verr)
	q.MinDuration = parseIntParam(values.Get("minDuration"), "minDuration", verr)
	q.MaxDuration = parseIntParam(values.Get("maxDuration"), "maxDuration", verr)
	if limit := parseIntParam(values.Get("limit"), "limit", verr); limit != nil {
		q.Limit = *limit
	}
	if offset := parseIntParam(values.Get("offset"), "offset", verr); offset != nil {
		q.Offset = *offset
	}

	if len(verr.Errors) > 0 {
		return q, verr
	}
	return q, nil
}

func parseFloatParam(raw, field string, verr *validation.Error) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		verr.Add(field, "must be a number")
		return nil
	}
	return &v
}

func parseIntParam(raw, field string, verr *validation.Error) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(field, "must be an integer")
		return nil
	}
	return &v
}

// pathID parses a positive int64 URL parameter, writing a 400 when it is malformed
func pathID(w http.ResponseWriter, r *http.Request, param, msg string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, r, http.StatusBadRequest, msg, "", nil)
		return 0, false
	}
	return id, true
}
