package models

import (
	"time"

	"github.com/lib/pq"
)

// Preference holds a family's stored travel preferences.
// Version starts at 1 on first write and increases on every write; 0 means never stored.
type Preference struct {
	FamilyID          int64          `db:"family_id" json:"-"`
	TravelType        pq.StringArray `db:"travel_type" json:"travel_type"`
	Budget            *string        `db:"budget" json:"budget"`
	AccommodationType *string        `db:"accommodation_type" json:"accommodation_type"`
	TravelPace        *string        `db:"travel_pace" json:"travel_pace"`
	Version           int64          `db:"version" json:"version"`
	UpdatedAt         *time.Time     `db:"updated_at" json:"updated_at,omitempty"`
}

// DefaultPreference is returned for families that never stored preferences
func DefaultPreference(familyID int64) Preference {
	return Preference{
		FamilyID:   familyID,
		TravelType: pq.StringArray{},
	}
}

// PreferenceUpdate is a partial preference write.
// A nil field leaves the stored value unchanged, an empty string clears it,
// and an empty travel_type list clears all tags.
type PreferenceUpdate struct {
	TravelType        *[]string `json:"travel_type" validate:"omitempty,dive,travel_type"`
	Budget            *string   `json:"budget" validate:"omitnil,eq=|budget"`
	AccommodationType *string   `json:"accommodation_type" validate:"omitnil,eq=|accommodation_type"`
	TravelPace        *string   `json:"travel_pace" validate:"omitnil,eq=|travel_pace"`
	Version           *int64    `json:"version" validate:"omitempty,min=0"`
}

// Merge applies the update on top of the current preference and returns the result.
// The version is carried over unchanged; the store increments it on write.
func (p Preference) Merge(u PreferenceUpdate) Preference {
	out := p
	if u.TravelType != nil {
		out.TravelType = pq.StringArray(NormalizeTags(*u.TravelType))
	}
	if out.TravelType == nil {
		out.TravelType = pq.StringArray{}
	}
	out.Budget = mergeOptional(p.Budget, u.Budget)
	out.AccommodationType = mergeOptional(p.AccommodationType, u.AccommodationType)
	out.TravelPace = mergeOptional(p.TravelPace, u.TravelPace)
	return out
}

func mergeOptional(current, update *string) *string {
	if update == nil {
		return current
	}
	if *update == "" {
		return nil
	}
	v := *update
	return &v
}

// Tags returns the stored travel types as a plain slice
func (p Preference) Tags() []string {
	return []string(p.TravelType)
}
