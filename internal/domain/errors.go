package domain

import "errors"

// Sentinel errors shared by every search and registration operation.
var (
	// ErrValidationRejected signals a malformed, incomplete or unexpected-field query.
	ErrValidationRejected = errors.New("validation rejected")
	// ErrEmptyQuery signals a search request without any constraint.
	ErrEmptyQuery = errors.New("empty query")
	// ErrNotFound signals a missing profile.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a uniqueness constraint violation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrStoreUnavailable signals that the record store failed or timed out.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsRejection reports whether err is a client-side rejection resolved before the store is touched.
func IsRejection(err error) bool {
	return errors.Is(err, ErrValidationRejected) || errors.Is(err, ErrEmptyQuery)
}
