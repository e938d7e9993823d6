package handlers

const (
	RequestIDHeader     = "X-Request-ID"
	maxRequestBodyBytes = 1 << 20

	MsgInvalidJSON         = "Invalid JSON body"
	MsgValidationFailed    = "Validation failed"
	MsgUnauthorized        = "Unauthorized"
	MsgInternalServerError = "Internal server error"
	MsgDatabaseUnavailable = "Database unavailable"

	MsgFamilyNotFound     = "Family not found"
	MsgMemberNotFound     = "Member not found"
	MsgItineraryNotFound  = "Itinerary not found"
	MsgDeviceRegistered   = "A family is already registered for this device"
	MsgPreferenceConflict = "Preferences were changed by another request, reload and try again"
	MsgInvalidItineraryID = "Invalid itinerary id"
	MsgInvalidMemberID    = "Invalid member id"
)
