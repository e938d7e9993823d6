package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"familytrips/internal/logging"
	"familytrips/internal/metrics"
	"familytrips/internal/models"
	"familytrips/internal/validation"
)

// CatalogBackupVersion is written into every export. Imports accept any 1.x document.
const CatalogBackupVersion = "1.0"

// CatalogBackup is the exported itinerary catalog
type CatalogBackup struct {
	Version     string            `json:"version"`
	ExportedAt  time.Time         `json:"exported_at"`
	Itineraries []ItineraryBackup `json:"itineraries"`
}

// ItineraryBackup is one exported catalog entry
type ItineraryBackup struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DurationDays int       `json:"duration_days"`
	Price        float64   `json:"price"`
	ImageURL     string    `json:"image_url,omitempty"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CatalogStore reads and bulk-writes the itinerary catalog
type CatalogStore interface {
	ListAll(ctx context.Context) ([]models.Itinerary, error)
	Import(ctx context.Context, items []models.Itinerary, clear bool) (int, error)
}

// BackupService exports and imports the itinerary catalog as JSON
type BackupService struct {
	catalog CatalogStore
	now     func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(catalog CatalogStore) *BackupService {
	return &BackupService{catalog: catalog, now: time.Now}
}

// Export writes the whole catalog to w and returns the number of itineraries written
func (s *BackupService) Export(ctx context.Context, w io.Writer) (int, error) {
	items, err := s.catalog.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to export itineraries: %w", err)
	}

	backup := CatalogBackup{
		Version:     CatalogBackupVersion,
		ExportedAt:  s.now().UTC(),
		Itineraries: make([]ItineraryBackup, len(items)),
	}
	for i, it := range items {
		backup.Itineraries[i] = ItineraryBackup{
			ID:           it.ID,
			Title:        it.Title,
			Description:  it.Description,
			DurationDays: it.DurationDays,
			Price:        it.Price,
			ImageURL:     it.ImageURL,
			Tags:         models.NormalizeTags(it.Tags),
			CreatedAt:    it.CreatedAt,
			UpdatedAt:    it.UpdatedAt,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return 0, fmt.Errorf("failed to encode backup: %w", err)
	}
	return len(items), nil
}

// ExportFile writes the catalog to a file at path.
// A failed export leaves no file behind.
func (s *BackupService) ExportFile(ctx context.Context, path string) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	n, err := s.Export(ctx, file)
	if err != nil {
		file.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			logging.Warn().Err(rmErr).Str("path", path).Msg("failed to remove partial export")
		}
		return 0, err
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output file: %w", err)
	}

	logging.Info().Str("path", path).Int("itineraries", n).Msg("catalog exported")
	return n, nil
}

// Import reads a catalog document from r and writes it in one transaction.
// Every entry is validated first; nothing is written if any entry is invalid.
// When clear is set the existing catalog is removed before inserting.
func (s *BackupService) Import(ctx context.Context, r io.Reader, clear bool) (int, error) {
	var backup CatalogBackup
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return 0, fmt.Errorf("failed to decode backup: %w", err)
	}

	if !strings.HasPrefix(backup.Version, "1.") {
		return 0, validation.NewError("version", fmt.Sprintf("unsupported backup version %q", backup.Version))
	}

	verr := &validation.Error{}
	items := make([]models.Itinerary, 0, len(backup.Itineraries))
	for i, b := range backup.Itineraries {
		in := trimItinerary(models.ItineraryInput{
			Title:        b.Title,
			Description:  b.Description,
			DurationDays: b.DurationDays,
			Price:        b.Price,
			ImageURL:     b.ImageURL,
			Tags:         b.Tags,
		})
		if err := validation.Struct(in); err != nil {
			var fieldErrs *validation.Error
			if !errors.As(err, &fieldErrs) {
				return 0, err
			}
			for _, fe := range fieldErrs.Errors {
				verr.Add(fmt.Sprintf("itineraries[%d].%s", i, fe.Field), fe.Message)
			}
			continue
		}

		it := in.ToItinerary()
		it.CreatedAt = b.CreatedAt
		it.UpdatedAt = b.UpdatedAt
		items = append(items, it)
	}
	if err := verr.OrNil(); err != nil {
		return 0, err
	}

	n, err := s.catalog.Import(ctx, items, clear)
	if err != nil {
		return 0, fmt.Errorf("failed to import itineraries: %w", err)
	}

	metrics.CatalogImportedTotal.Add(float64(n))
	logging.Info().
		Str("version", backup.Version).
		Time("exported_at", backup.ExportedAt).
		Int("itineraries", n).
		Bool("cleared", clear).
		Msg("catalog imported")
	return n, nil
}

// ImportFile reads a catalog document from the file at path
func (s *BackupService) ImportFile(ctx context.Context, path string, clear bool) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.Import(ctx, file, clear)
}
