package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"familytrips/internal/database"
	"familytrips/internal/models"
)

const preferenceColumns = "family_id, travel_type, budget, accommodation_type, travel_pace, version, updated_at"

// PreferenceRepository stores one preference row per family
type PreferenceRepository struct {
	db *database.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *database.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get returns the family's stored preference, or an empty default when none was stored
func (r *PreferenceRepository) Get(ctx context.Context, familyID int64) (*models.Preference, error) {
	return getPreference(ctx, r.db, familyID)
}

// Upsert replaces the family's preference with p and returns the stored row.
// Every column is overwritten and the version is incremented.
func (r *PreferenceRepository) Upsert(ctx context.Context, familyID int64, p models.Preference) (*models.Preference, error) {
	return upsertPreference(ctx, r.db, familyID, p)
}

// GetTags returns only the family's stored travel types
func (r *PreferenceRepository) GetTags(ctx context.Context, familyID int64) ([]string, error) {
	p, err := r.Get(ctx, familyID)
	if err != nil {
		return nil, err
	}
	return p.Tags(), nil
}

func getPreference(ctx context.Context, q database.DBTX, familyID int64) (*models.Preference, error) {
	query := "SELECT " + preferenceColumns + " FROM preferences WHERE family_id = ?"

	p := &models.Preference{}
	err := q.GetContext(ctx, p, query, familyID)
	if errors.Is(err, sql.ErrNoRows) {
		def := models.DefaultPreference(familyID)
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	if p.TravelType == nil {
		p.TravelType = []string{}
	}
	return p, nil
}

func upsertPreference(ctx context.Context, q database.DBTX, familyID int64, p models.Preference) (*models.Preference, error) {
	query := `
		INSERT INTO preferences (family_id, travel_type, budget, accommodation_type, travel_pace, version, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, NOW())
		ON CONFLICT (family_id) DO UPDATE SET
			travel_type = EXCLUDED.travel_type,
			budget = EXCLUDED.budget,
			accommodation_type = EXCLUDED.accommodation_type,
			travel_pace = EXCLUDED.travel_pace,
			version = preferences.version + 1,
			updated_at = NOW()
		RETURNING ` + preferenceColumns

	tags := models.NormalizeTags(p.TravelType)

	stored := &models.Preference{}
	err := q.GetContext(ctx, stored, query,
		familyID, stringArray(tags), p.Budget, p.AccommodationType, p.TravelPace)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert preference: %w", err)
	}
	if stored.TravelType == nil {
		stored.TravelType = []string{}
	}
	return stored, nil
}
