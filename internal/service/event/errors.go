package event

import "errors"

// Validation failures. Each leaves the collection unchanged.
var (
	ErrMissingField        = errors.New("missing field")
	ErrUnparseableDateTime = errors.New("unparseable date/time")
	ErrPastDateTime        = errors.New("date/time is not in the future")
)

// Collaborator failures. The in-memory mutation made before the failing call is kept.
var (
	ErrPersistence = errors.New("persistence failure")
	ErrScheduling  = errors.New("scheduling failure")
)

var (
	ErrNotInitialized = errors.New("store is not initialized")
	ErrEventNotFound  = errors.New("event not found")
)

// IsValidation reports whether err is one of the user-facing validation failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrUnparseableDateTime) ||
		errors.Is(err, ErrPastDateTime)
}
