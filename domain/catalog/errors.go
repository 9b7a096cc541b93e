package catalog

import "errors"

var (
	// ErrEventNotFound is returned when no event exists for an id.
	ErrEventNotFound = errors.New("event not found")
	// ErrVenueNotFound is returned when no venue exists for an id.
	ErrVenueNotFound = errors.New("venue not found")
	// ErrValidationRejected marks a record missing mandatory fields.
	ErrValidationRejected = errors.New("record rejected by validation")
	// ErrEntityTypeMismatch is returned when a stored item holds a different record kind.
	ErrEntityTypeMismatch = errors.New("stored item has unexpected entity type")
	// ErrUnsupportedField is returned when an in-place update names a field outside the allowed set.
	ErrUnsupportedField = errors.New("field cannot be updated in place")
)
