package models

import "time"

// Member roles
const (
	RoleAdult = "Adult"
	RoleChild = "Child"
)

// Family is a household registered from a single device
type Family struct {
	ID        int64     `db:"id" json:"id"`
	DeviceID  string    `db:"device_id" json:"device_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FamilyMember is an adult or child travelling with the family
type FamilyMember struct {
	ID                  int64     `db:"id" json:"id"`
	FamilyID            int64     `db:"family_id" json:"family_id"`
	FirstName           string    `db:"first_name" json:"first_name"`
	LastName            string    `db:"last_name" json:"last_name"`
	Role                string    `db:"role" json:"role"`
	BirthDate           *Date     `db:"birth_date" json:"birth_date,omitempty"`
	DietaryRestrictions string    `db:"dietary_restrictions" json:"dietary_restrictions"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// IsChild reports whether the member has the Child role
func (m *FamilyMember) IsChild() bool {
	return m.Role == RoleChild
}

// FamilyProfile combines a family with its members and travel preference
type FamilyProfile struct {
	Family
	Members    []FamilyMember `json:"members"`
	Preference Preference     `json:"preferences"`
}

// MemberInput is the writable part of a family member
type MemberInput struct {
	FirstName           string `json:"first_name" validate:"required,max=100"`
	LastName            string `json:"last_name" validate:"max=100"`
	Role                string `json:"role" validate:"required,oneof=Adult Child"`
	BirthDate           *Date  `json:"birth_date" validate:"required_if=Role Child,omitempty,not_future"`
	DietaryRestrictions string `json:"dietary_restrictions" validate:"max=500"`
}

// ToMember builds a member row from the input
func (in MemberInput) ToMember(familyID int64) FamilyMember {
	return FamilyMember{
		FamilyID:            familyID,
		FirstName:           in.FirstName,
		LastName:            in.LastName,
		Role:                in.Role,
		BirthDate:           in.BirthDate,
		DietaryRestrictions: in.DietaryRestrictions,
	}
}

// OnboardingRequest registers a device's family in one step
type OnboardingRequest struct {
	DeviceID    string            `json:"device_id" validate:"required,max=200"`
	Name        string            `json:"name" validate:"required,max=200"`
	Members     []MemberInput     `json:"members" validate:"dive"`
	Preferences *PreferenceUpdate `json:"preferences"`
}

// ProfileUpdate changes the family name and/or merges preference fields.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	Name        *string           `json:"name" validate:"omitempty,min=1,max=200"`
	Preferences *PreferenceUpdate `json:"preferences"`
}
