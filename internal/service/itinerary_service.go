package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"familytrips/internal/logging"
	"familytrips/internal/metrics"
	"familytrips/internal/models"
	"familytrips/internal/validation"
)

// ItineraryStore persists the itinerary catalog
type ItineraryStore interface {
	List(ctx context.Context, f models.ItineraryFilter) ([]models.Itinerary, error)
	Count(ctx context.Context, f models.ItineraryFilter) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Itinerary, error)
	Create(ctx context.Context, it models.Itinerary) (*models.Itinerary, error)
	Update(ctx context.Context, it models.Itinerary) (*models.Itinerary, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// FamilyLookup resolves a device to its family
type FamilyLookup interface {
	GetByDeviceID(ctx context.Context, deviceID string) (*models.Family, error)
}

// PreferenceTags reads a family's stored travel types
type PreferenceTags interface {
	GetTags(ctx context.Context, familyID int64) ([]string, error)
}

// MatchQuery holds the matcher inputs. An empty DeviceID browses the catalog
// without personalization. Limit 0 returns every match.
type MatchQuery struct {
	DeviceID    string
	Tags        []string
	MinPrice    *float64
	MaxPrice    *float64
	MinDuration *int
	MaxDuration *int
	Limit       int
	Offset      int
}

// MatchResult is an ordered page of matching itineraries
type MatchResult struct {
	Items  []models.Itinerary
	Total  int
	Limit  int
	Offset int
}

// Paged reports whether the result was limited
func (r *MatchResult) Paged() bool {
	return r.Limit > 0
}

// ItineraryService matches itineraries to families and manages the catalog
type ItineraryService struct {
	itineraries ItineraryStore
	families    FamilyLookup
	preferences PreferenceTags
	maxPageSize int
}

// NewItineraryService creates a new itinerary service
func NewItineraryService(itineraries ItineraryStore, families FamilyLookup, preferences PreferenceTags, maxPageSize int) *ItineraryService {
	return &ItineraryService{
		itineraries: itineraries,
		families:    families,
		preferences: preferences,
		maxPageSize: maxPageSize,
	}
}

// Match returns the itineraries satisfying every explicit filter and, when the
// device's family has stored travel types, sharing at least one of them.
// Results are ordered newest first.
func (s *ItineraryService) Match(ctx context.Context, q MatchQuery) (*MatchResult, error) {
	if err := s.validateQuery(q); err != nil {
		return nil, err
	}

	filter := models.ItineraryFilter{
		Tags:        models.NormalizeTags(q.Tags),
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		MinDuration: q.MinDuration,
		MaxDuration: q.MaxDuration,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}

	personalized := false
	if deviceID := strings.TrimSpace(q.DeviceID); deviceID != "" {
		family, err := s.families.GetByDeviceID(ctx, deviceID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve family: %w", err)
		}
		if family == nil {
			return nil, ErrFamilyNotFound
		}

		tags, err := s.preferences.GetTags(ctx, family.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load preference tags: %w", err)
		}
		filter.PreferenceTags = tags
		personalized = len(tags) > 0
	}

	items, err := s.itineraries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to match itineraries: %w", err)
	}

	total := len(items)
	if filter.Limit > 0 {
		total, err = s.itineraries.Count(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to count itineraries: %w", err)
		}
	}

	metrics.RecordMatch(personalized, len(items))
	logging.Ctx(ctx).Debug().
		Bool("personalized", personalized).
		Int("results", len(items)).
		Msg("itineraries matched")

	return &MatchResult{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *ItineraryService) validateQuery(q MatchQuery) error {
	verr := &validation.Error{}

	checkPrice(verr, "minPrice", q.MinPrice)
	checkPrice(verr, "maxPrice", q.MaxPrice)
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		verr.Add("minPrice", "must not exceed maxPrice")
	}
	checkDuration(verr, "minDuration", q.MinDuration)
	checkDuration(verr, "maxDuration", q.MaxDuration)
	if q.MinDuration != nil && q.MaxDuration != nil && *q.MinDuration > *q.MaxDuration {
		verr.Add("minDuration", "must not exceed maxDuration")
	}
	if q.Limit < 0 || q.Limit > s.maxPageSize {
		verr.Add("limit", fmt.Sprintf("must be between 0 and %d", s.maxPageSize))
	}
	if q.Offset < 0 {
		verr.Add("offset", "must be greater than or equal to 0")
	}

	return verr.OrNil()
}

func checkPrice(verr *validation.Error, field string, v *float64) {
	switch {
	case v == nil:
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		verr.Add(field, "must be a finite number")
	case *v < 0:
		verr.Add(field, "must be greater than or equal to 0")
	}
}

// durations bind to an INTEGER column
func checkDuration(verr *validation.Error, field string, v *int) {
	switch {
	case v == nil:
	case *v < 0:
		verr.Add(field, "must be greater than or equal to 0")
	case *v > math.MaxInt32:
		verr.Add(field, fmt.Sprintf("must be less than or equal to %d", math.MaxInt32))
	}
}

// Get returns a catalog entry by ID
func (s *ItineraryService) Get(ctx context.Context, id int64) (*models.Itinerary, error) {
	it, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}
	if it == nil {
		return nil, ErrItineraryNotFound
	}
	return it, nil
}

// Create validates and adds a catalog entry
func (s *ItineraryService) Create(ctx context.Context, in models.ItineraryInput) (*models.Itinerary, error) {
	in = trimItinerary(in)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	it, err := s.itineraries.Create(ctx, in.ToItinerary())
	if err != nil {
		return nil, fmt.Errorf("failed to create itinerary: %w", err)
	}

	logging.Ctx(ctx).Info().Int64("itinerary_id", it.ID).Msg("itinerary created")
	return it, nil
}

// Update validates and replaces a catalog entry
func (s *ItineraryService) Update(ctx context.Context, id int64, in models.ItineraryInput) (*models.Itinerary, error) {
	in = trimItinerary(in)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	next := in.ToItinerary()
	next.ID = id
	it, err := s.itineraries.Update(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("failed to update itinerary: %w", err)
	}
	if it == nil {
		return nil, ErrItineraryNotFound
	}
	return it, nil
}

// Delete removes a catalog entry
func (s *ItineraryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.itineraries.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	if !deleted {
		return ErrItineraryNotFound
	}

	logging.Ctx(ctx).Info().Int64("itinerary_id", id).Msg("itinerary deleted")
	return nil
}

func trimItinerary(in models.ItineraryInput) models.ItineraryInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	tags := make([]string, len(in.Tags))
	for i, t := range in.Tags {
		tags[i] = strings.TrimSpace(t)
	}
	in.Tags = tags
	return in
}
