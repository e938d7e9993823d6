package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"familytrips/internal/logging"
	"familytrips/internal/metrics"
	"familytrips/internal/models"
	"familytrips/internal/repository"
	"familytrips/internal/validation"
)

// FamilyStore persists families and their profile
type FamilyStore interface {
	Create(ctx context.Context, deviceID, name string, members []models.FamilyMember, pref models.Preference) (*models.FamilyProfile, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*models.Family, error)
	GetProfile(ctx context.Context, family *models.Family) (*models.FamilyProfile, error)
	UpdateProfile(ctx context.Context, familyID int64, upd models.ProfileUpdate) (*models.FamilyProfile, error)
}

// MemberStore persists family members
type MemberStore interface {
	Get(ctx context.Context, familyID, memberID int64) (*models.FamilyMember, error)
	Create(ctx context.Context, m models.FamilyMember) (*models.FamilyMember, error)
	Update(ctx context.Context, m models.FamilyMember) (*models.FamilyMember, error)
	Delete(ctx context.Context, familyID, memberID int64) (bool, error)
}

// FamilyService handles onboarding, profile edits and member management
type FamilyService struct {
	families FamilyStore
	members  MemberStore
}

// NewFamilyService creates a new family service
func NewFamilyService(families FamilyStore, members MemberStore) *FamilyService {
	return &FamilyService{families: families, members: members}
}

// Onboard registers a new family for a device with its members and initial preferences
func (s *FamilyService) Onboard(ctx context.Context, req models.OnboardingRequest) (*models.FamilyProfile, error) {
	req.DeviceID = strings.TrimSpace(req.DeviceID)
	req.Name = strings.TrimSpace(req.Name)
	for i := range req.Members {
		trimMember(&req.Members[i])
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	members := make([]models.FamilyMember, len(req.Members))
	for i, in := range req.Members {
		members[i] = in.ToMember(0)
	}

	pref := models.DefaultPreference(0)
	if req.Preferences != nil {
		pref = pref.Merge(*req.Preferences)
	}

	profile, err := s.families.Create(ctx, req.DeviceID, req.Name, members, pref)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDeviceRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	logging.Ctx(ctx).Info().
		Int64("family_id", profile.ID).
		Int("members", len(profile.Members)).
		Msg("family onboarded")
	return profile, nil
}

// GetProfile returns the family registered for the device with members and preferences
func (s *FamilyService) GetProfile(ctx context.Context, deviceID string) (*models.FamilyProfile, error) {
	family, err := s.resolveFamily(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	profile, err := s.families.GetProfile(ctx, family)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile renames the family and/or merges preference changes.
// A preference version that no longer matches the stored one yields ErrPreferenceConflict.
func (s *FamilyService) UpdateProfile(ctx context.Context, deviceID string, upd models.ProfileUpdate) (*models.FamilyProfile, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		upd.Name = &name
	}

	if err := validation.Struct(upd); err != nil {
		return nil, err
	}

	family, err := s.resolveFamily(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	profile, err := s.families.UpdateProfile(ctx, family.ID, upd)
	switch {
	case errors.Is(err, repository.ErrStaleVersion):
		metrics.PreferenceConflictsTotal.Inc()
		return nil, ErrPreferenceConflict
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrFamilyNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	logging.Ctx(ctx).Info().
		Int64("family_id", family.ID).
		Int64("preference_version", profile.Preference.Version).
		Msg("family profile updated")
	return profile, nil
}

// AddMember adds a member to the device's family
func (s *FamilyService) AddMember(ctx context.Context, deviceID string, in models.MemberInput) (*models.FamilyMember, error) {
	trimMember(&in)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	family, err := s.resolveFamily(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	member, err := s.members.Create(ctx, in.ToMember(family.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return member, nil
}

// UpdateMember replaces the fields of a member of the device's family
func (s *FamilyService) UpdateMember(ctx context.Context, deviceID string, memberID int64, in models.MemberInput) (*models.FamilyMember, error) {
	trimMember(&in)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	family, err := s.resolveFamily(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	m := in.ToMember(family.ID)
	m.ID = memberID
	member, err := s.members.Update(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// RemoveMember deletes a member of the device's family
func (s *FamilyService) RemoveMember(ctx context.Context, deviceID string, memberID int64) error {
	family, err := s.resolveFamily(ctx, deviceID)
	if err != nil {
		return err
	}

	deleted, err := s.members.Delete(ctx, family.ID, memberID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if !deleted {
		return ErrMemberNotFound
	}
	return nil
}

func (s *FamilyService) resolveFamily(ctx context.Context, deviceID string) (*models.Family, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, ErrFamilyNotFound
	}

	family, err := s.families.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	return family, nil
}

func trimMember(in *models.MemberInput) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Role = strings.TrimSpace(in.Role)
	in.DietaryRestrictions = strings.TrimSpace(in.DietaryRestrictions)
	if in.BirthDate != nil && in.BirthDate.IsZero() {
		in.BirthDate = nil
	}
}
