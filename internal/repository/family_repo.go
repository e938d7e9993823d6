package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"familytrips/internal/database"
	"familytrips/internal/models"
)

const familyColumns = "id, device_id, name, created_at, updated_at"

// FamilyRepository handles database operations for families
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// Create registers a family with its members and initial preference in one transaction.
// It returns ErrDuplicate when the device is already registered.
func (r *FamilyRepository) Create(ctx context.Context, deviceID, name string, members []models.FamilyMember, pref models.Preference) (*models.FamilyProfile, error) {
	var profile *models.FamilyProfile
	err := r.db.InTx(ctx, func(tx *database.Tx) error {
		query := "INSERT INTO families (device_id, name) VALUES (?, ?) RETURNING " + familyColumns
		family := models.Family{}
		if err := tx.GetContext(ctx, &family, query, deviceID, name); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to create family: %w", err)
		}

		stored := make([]models.FamilyMember, 0, len(members))
		for _, m := range members {
			m.FamilyID = family.ID
			sm, err := insertMember(ctx, tx, m)
			if err != nil {
				return err
			}
			stored = append(stored, *sm)
		}

		p, err := upsertPreference(ctx, tx, family.ID, pref)
		if err != nil {
			return err
		}

		profile = &models.FamilyProfile{Family: family, Members: stored, Preference: *p}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetByDeviceID retrieves a family by its device identifier
func (r *FamilyRepository) GetByDeviceID(ctx context.Context, deviceID string) (*models.Family, error) {
	query := "SELECT " + familyColumns + " FROM families WHERE device_id = ?"

	family := &models.Family{}
	err := r.db.GetContext(ctx, family, query, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return family, nil
}

// GetProfile loads the family's members and preference
func (r *FamilyRepository) GetProfile(ctx context.Context, family *models.Family) (*models.FamilyProfile, error) {
	return loadProfile(ctx, r.db, *family)
}

// UpdateProfile renames the family and/or merges a preference update in one transaction.
// The family row is locked for the duration so concurrent writers serialize. When the
// update carries a version that differs from the stored one, ErrStaleVersion is returned
// and nothing is written.
func (r *FamilyRepository) UpdateProfile(ctx context.Context, familyID int64, upd models.ProfileUpdate) (*models.FamilyProfile, error) {
	var profile *models.FamilyProfile
	err := r.db.InTx(ctx, func(tx *database.Tx) error {
		family := models.Family{}
		query := "SELECT " + familyColumns + " FROM families WHERE id = ? FOR UPDATE"
		if err := tx.GetContext(ctx, &family, query, familyID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock family: %w", err)
		}

		if upd.Name != nil {
			query = "UPDATE families SET name = ?, updated_at = NOW() WHERE id = ? RETURNING " + familyColumns
			if err := tx.GetContext(ctx, &family, query, *upd.Name, familyID); err != nil {
				return fmt.Errorf("failed to rename family: %w", err)
			}
		}

		if upd.Preferences != nil {
			current, err := getPreference(ctx, tx, familyID)
			if err != nil {
				return err
			}
			if v := upd.Preferences.Version; v != nil && *v != current.Version {
				return ErrStaleVersion
			}
			if _, err := upsertPreference(ctx, tx, familyID, current.Merge(*upd.Preferences)); err != nil {
				return err
			}
		}

		var err error
		profile, err = loadProfile(ctx, tx, family)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func loadProfile(ctx context.Context, q database.DBTX, family models.Family) (*models.FamilyProfile, error) {
	members, err := listMembers(ctx, q, family.ID)
	if err != nil {
		return nil, err
	}
	pref, err := getPreference(ctx, q, family.ID)
	if err != nil {
		return nil, err
	}
	return &models.FamilyProfile{Family: family, Members: members, Preference: *pref}, nil
}
