package service

import "errors"

var (
	ErrFamilyNotFound     = errors.New("family not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrItineraryNotFound  = errors.New("itinerary not found")
	ErrDeviceRegistered   = errors.New("a family is already registered for this device")
	ErrPreferenceConflict = errors.New("preferences were changed by another request")
)
