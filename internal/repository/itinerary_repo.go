package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"familytrips/internal/database"
	"familytrips/internal/models"
)

// ItineraryRepository handles database operations for the itinerary catalog
type ItineraryRepository struct {
	db *database.DB
}

// NewItineraryRepository creates a new itinerary repository
func NewItineraryRepository(db *database.DB) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

// List returns the itineraries matching the filter, newest first
func (r *ItineraryRepository) List(ctx context.Context, f models.ItineraryFilter) ([]models.Itinerary, error) {
	query, args := buildItineraryQuery(f)

	items := []models.Itinerary{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query itineraries: %w", err)
	}
	for i := range items {
		if items[i].Tags == nil {
			items[i].Tags = []string{}
		}
	}
	return items, nil
}

// Count returns the number of itineraries matching the filter, ignoring limit and offset
func (r *ItineraryRepository) Count(ctx context.Context, f models.ItineraryFilter) (int, error) {
	query, args := buildItineraryCountQuery(f)

	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count itineraries: %w", err)
	}
	return n, nil
}

// GetByID retrieves an itinerary by ID
func (r *ItineraryRepository) GetByID(ctx context.Context, id int64) (*models.Itinerary, error) {
	query := "SELECT " + itineraryColumns + " FROM itineraries WHERE id = ?"

	it := &models.Itinerary{}
	err := r.db.GetContext(ctx, it, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}
	return it, nil
}

// Create inserts an itinerary and returns the stored row
func (r *ItineraryRepository) Create(ctx context.Context, it models.Itinerary) (*models.Itinerary, error) {
	return insertItinerary(ctx, r.db, it, false)
}

// Update replaces an itinerary's fields. It returns nil when the itinerary does not exist.
func (r *ItineraryRepository) Update(ctx context.Context, it models.Itinerary) (*models.Itinerary, error) {
	query := `
		UPDATE itineraries
		SET title = ?, description = ?, duration_days = ?, price = ?, image_url = ?, tags = ?, updated_at = NOW()
		WHERE id = ?
		RETURNING ` + itineraryColumns

	stored := &models.Itinerary{}
	err := r.db.GetContext(ctx, stored, query,
		it.Title, it.Description, it.DurationDays, it.Price, it.ImageURL, stringArray(it.Tags), it.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update itinerary: %w", err)
	}
	return stored, nil
}

// Delete removes an itinerary. It reports false when nothing was deleted.
func (r *ItineraryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM itineraries WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete itinerary: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// ListAll returns the whole catalog ordered by ID
func (r *ItineraryRepository) ListAll(ctx context.Context) ([]models.Itinerary, error) {
	query := "SELECT " + itineraryColumns + " FROM itineraries ORDER BY id ASC"

	items := []models.Itinerary{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	return items, nil
}

// Import inserts the given itineraries in one transaction, keeping their timestamps.
// When clear is set the catalog is emptied first. It returns the number of rows inserted.
func (r *ItineraryRepository) Import(ctx context.Context, items []models.Itinerary, clear bool) (int, error) {
	err := r.db.InTx(ctx, func(tx *database.Tx) error {
		if clear {
			if _, err := tx.ExecContext(ctx, "DELETE FROM itineraries"); err != nil {
				return fmt.Errorf("failed to clear itineraries: %w", err)
			}
		}

		for _, it := range items {
			if _, err := insertItinerary(ctx, tx, it, true); err != nil {
				return fmt.Errorf("failed to import %q: %w", it.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func insertItinerary(ctx context.Context, q database.DBTX, it models.Itinerary, keepTimestamps bool) (*models.Itinerary, error) {
	args := []any{it.Title, it.Description, it.DurationDays, it.Price, it.ImageURL, stringArray(it.Tags)}

	query := `
		INSERT INTO itineraries (title, description, duration_days, price, image_url, tags)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING ` + itineraryColumns
	if keepTimestamps && !it.CreatedAt.IsZero() {
		query = `
			INSERT INTO itineraries (title, description, duration_days, price, image_url, tags, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING ` + itineraryColumns
		updated := it.UpdatedAt
		if updated.IsZero() {
			updated = it.CreatedAt
		}
		args = append(args, it.CreatedAt, updated)
	}

	stored := &models.Itinerary{}
	if err := q.GetContext(ctx, stored, query, args...); err != nil {
		return nil, fmt.Errorf("failed to insert itinerary: %w", err)
	}
	return stored, nil
}
