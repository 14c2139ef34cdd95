package service

import (
	"errors"
	"strings"
)

var (
	// ErrFieldNotAmendable is returned when an amend targets anything
	// other than the two outcome fields.
	ErrFieldNotAmendable = errors.New("field is not amendable after creation")

	// ErrUploadInFlight is returned when a session already has an image
	// upload in progress. Uploads are serialized per session.
	ErrUploadInFlight = errors.New("an image upload is already in progress for this draft")

	// ErrReservedFieldKey is returned when a field write targets one of
	// the store's reserved keys.
	ErrReservedFieldKey = errors.New("field key is reserved")
)

// ValidationError reports the required draft fields that were missing or
// empty at save time. No store call is made when it is returned.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}
