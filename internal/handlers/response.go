package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"familytrips/internal/logging"
	"familytrips/internal/validation"
)

// APIResponse is the JSON envelope of every API response
type APIResponse struct {
	Success bool                    `json:"success"`
	Data    any                     `json:"data,omitempty"`
	Meta    *Meta                   `json:"meta,omitempty"`
	Message string                  `json:"message,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// Meta carries pagination details for list responses
type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes a limited result page
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	respondJSON(w, r, status, APIResponse{Success: true, Data: data})
}

// decodeJSON reads a size-limited JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}
