package models

import (
	"time"

	"github.com/lib/pq"
)

// Itinerary is a catalog entry offered to families
type Itinerary struct {
	ID           int64          `db:"id" json:"id"`
	Title        string         `db:"title" json:"title"`
	Description  string         `db:"description" json:"description"`
	DurationDays int            `db:"duration_days" json:"duration_days"`
	Price        float64        `db:"price" json:"price"`
	ImageURL     string         `db:"image_url" json:"image_url"`
	Tags         pq.StringArray `db:"tags" json:"tags"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ItineraryInput is the writable part of an itinerary.
// Price bounds follow the NUMERIC(10,2) column.
type ItineraryInput struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"max=5000"`
	DurationDays int      `json:"duration_days" validate:"gt=0,lte=365"`
	Price        float64  `json:"price" validate:"gte=0,lte=99999999.99,cents"`
	ImageURL     string   `json:"image_url" validate:"omitempty,url"`
	Tags         []string `json:"tags" validate:"dive,travel_type"`
}

// ToItinerary builds an itinerary row from the input with normalized tags
func (in ItineraryInput) ToItinerary() Itinerary {
	return Itinerary{
		Title:        in.Title,
		Description:  in.Description,
		DurationDays: in.DurationDays,
		Price:        in.Price,
		ImageURL:     in.ImageURL,
		Tags:         pq.StringArray(NormalizeTags(in.Tags)),
	}
}

// ItineraryFilter narrows the catalog. Nil bounds and empty tag sets are not applied.
type ItineraryFilter struct {
	Tags           []string
	PreferenceTags []string
	MinPrice       *float64
	MaxPrice       *float64
	MinDuration    *int
	MaxDuration    *int
	Limit          int
	Offset         int
}
