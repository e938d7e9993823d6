package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"familytrips/internal/models"
)

// FamilyService is the family profile behaviour the handlers depend on
type FamilyService interface {
	Onboard(ctx context.Context, req models.OnboardingRequest) (*models.FamilyProfile, error)
	GetProfile(ctx context.Context, deviceID string) (*models.FamilyProfile, error)
	UpdateProfile(ctx context.Context, deviceID string, upd models.ProfileUpdate) (*models.FamilyProfile, error)
	AddMember(ctx context.Context, deviceID string, in models.MemberInput) (*models.FamilyMember, error)
	UpdateMember(ctx context.Context, deviceID string, memberID int64, in models.MemberInput) (*models.FamilyMember, error)
	RemoveMember(ctx context.Context, deviceID string, memberID int64) error
}

// FamilyHandler serves onboarding and the device-scoped profile endpoints
type FamilyHandler struct {
	families FamilyService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(families FamilyService) *FamilyHandler {
	return &FamilyHandler{families: families}
}

// Onboard handles POST /api/families
func (h *FamilyHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req models.OnboardingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadJSON(w, r, err)
		return
	}

	profile, err := h.families.Onboard(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, "failed to onboard family")
		return
	}
	respondSuccess(w, r, http.StatusCreated, profile)
}

// GetProfile handles GET /api/families/by-device/{device_id}
func (h *FamilyHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.families.GetProfile(r.Context(), chi.URLParam(r, "device_id"))
	if err != nil {
		respondServiceError(w, r, err, "failed to load family profile")
		return
	}
	respondSuccess(w, r, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/families/by-device/{device_id}
func (h *FamilyHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		respondBadJSON(w, r, err)
		return
	}

	profile, err := h.families.UpdateProfile(r.Context(), chi.URLParam(r, "device_id"), upd)
	if err != nil {
		respondServiceError(w, r, err, "failed to update family profile")
		return
	}
	respondSuccess(w, r, http.StatusOK, profile)
}

// AddMember handles POST /api/families/by-device/{device_id}/members
func (h *FamilyHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var in models.MemberInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondBadJSON(w, r, err)
		return
	}

	member, err := h.families.AddMember(r.Context(), chi.URLParam(r, "device_id"), in)
	if err != nil {
		respondServiceError(w, r, err, "failed to add member")
		return
	}
	respondSuccess(w, r, http.StatusCreated, member)
}

// UpdateMember handles PUT /api/families/by-device/{device_id}/members/{member_id}
func (h *FamilyHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(w, r, "member_id", MsgInvalidMemberID)
	if !ok {
		return
	}

	var in models.MemberInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondBadJSON(w, r, err)
		return
	}

	member, err := h.families.UpdateMember(r.Context(), chi.URLParam(r, "device_id"), memberID, in)
	if err != nil {
		respondServiceError(w, r, err, "failed to update member")
		return
	}
	respondSuccess(w, r, http.StatusOK, member)
}

// RemoveMember handles DELETE /api/families/by-device/{device_id}/members/{member_id}
func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(w, r, "member_id", MsgInvalidMemberID)
	if !ok {
		return
	}

	if err := h.families.RemoveMember(r.Context(), chi.URLParam(r, "device_id"), memberID); err != nil {
		respondServiceError(w, r, err, "failed to remove member")
		return
	}
	respondJSON(w, r, http.StatusOK, APIResponse{Success: true, Message: "Member removed"})
}
