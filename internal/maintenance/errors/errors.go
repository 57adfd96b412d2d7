package errors

import "errors"

var (
	ErrNotFound = errors.New("maintenance entry not found")

	ErrInvalidID = errors.New("invalid maintenance entry ID format")
)
