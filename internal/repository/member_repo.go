package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"familytrips/internal/database"
	"familytrips/internal/models"
)

const memberColumns = "id, family_id, first_name, last_name, role, birth_date, dietary_restrictions, created_at, updated_at"

// MemberRepository handles database operations for family members
type MemberRepository struct {
	db *database.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Get returns a member of the family, or nil if it does not exist or belongs to another family
func (r *MemberRepository) Get(ctx context.Context, familyID, memberID int64) (*models.FamilyMember, error) {
	query := "SELECT " + memberColumns + " FROM family_members WHERE id = ? AND family_id = ?"

	m := &models.FamilyMember{}
	err := r.db.GetContext(ctx, m, query, memberID, familyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// Create inserts a member and returns the stored row
func (r *MemberRepository) Create(ctx context.Context, m models.FamilyMember) (*models.FamilyMember, error) {
	return insertMember(ctx, r.db, m)
}

// Update replaces a member's fields. It returns nil when the member is not part of the family.
func (r *MemberRepository) Update(ctx context.Context, m models.FamilyMember) (*models.FamilyMember, error) {
	query := `
		UPDATE family_members
		SET first_name = ?, last_name = ?, role = ?, birth_date = ?, dietary_restrictions = ?, updated_at = NOW()
		WHERE id = ? AND family_id = ?
		RETURNING ` + memberColumns

	stored := &models.FamilyMember{}
	err := r.db.GetContext(ctx, stored, query,
		m.FirstName, m.LastName, m.Role, m.BirthDate, m.DietaryRestrictions, m.ID, m.FamilyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return stored, nil
}

// Delete removes a member. It reports false when nothing was deleted.
func (r *MemberRepository) Delete(ctx context.Context, familyID, memberID int64) (bool, error) {
	query := "DELETE FROM family_members WHERE id = ? AND family_id = ?"
	res, err := r.db.ExecContext(ctx, query, memberID, familyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

func listMembers(ctx context.Context, q database.DBTX, familyID int64) ([]models.FamilyMember, error) {
	query := "SELECT " + memberColumns + " FROM family_members WHERE family_id = ? ORDER BY id ASC"

	members := []models.FamilyMember{}
	if err := q.SelectContext(ctx, &members, query, familyID); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func insertMember(ctx context.Context, q database.DBTX, m models.FamilyMember) (*models.FamilyMember, error) {
	query := `
		INSERT INTO family_members (family_id, first_name, last_name, role, birth_date, dietary_restrictions)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING ` + memberColumns

	stored := &models.FamilyMember{}
	err := q.GetContext(ctx, stored, query,
		m.FamilyID, m.FirstName, m.LastName, m.Role, m.BirthDate, m.DietaryRestrictions)
	if err != nil {
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}
	return stored, nil
}
