package handlers

import (
	"errors"
	"net/http"

	"familytrips/internal/logging"
	"familytrips/internal/service"
	"familytrips/internal/validation"
)

// respondWithError writes the error envelope. Server errors are logged with err.
func respondWithError(w http.ResponseWriter, r *http.Request, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg(logMsg)
	}

	respondJSON(w, r, status, APIResponse{Success: false, Message: userMsg})
}

func respondValidationError(w http.ResponseWriter, r *http.Request, verr *validation.Error) {
	logging.Ctx(r.Context()).Debug().Str("path", r.URL.Path).Err(verr).Msg("request rejected")
	respondJSON(w, r, http.StatusBadRequest, APIResponse{
		Success: false,
		Message: MsgValidationFailed,
		Errors:  verr.Errors,
	})
}

// respondServiceError maps service-layer errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		respondValidationError(w, r, verr)
	case errors.Is(err, service.ErrFamilyNotFound):
		respondWithError(w, r, http.StatusNotFound, MsgFamilyNotFound, "", nil)
	case errors.Is(err, service.ErrMemberNotFound):
		respondWithError(w, r, http.StatusNotFound, MsgMemberNotFound, "", nil)
	case errors.Is(err, service.ErrItineraryNotFound):
		respondWithError(w, r, http.StatusNotFound, MsgItineraryNotFound, "", nil)
	case errors.Is(err, service.ErrDeviceRegistered):
		respondWithError(w, r, http.StatusConflict, MsgDeviceRegistered, "", nil)
	case errors.Is(err, service.ErrPreferenceConflict):
		respondWithError(w, r, http.StatusConflict, MsgPreferenceConflict, logMsg, err)
	default:
		respondWithError(w, r, http.StatusInternalServerError, MsgInternalServerError, logMsg, err)
	}
}

func respondBadJSON(w http.ResponseWriter, r *http.Request, err error) {
	respondWithError(w, r, http.StatusBadRequest, MsgInvalidJSON, "malformed request body", err)
}
