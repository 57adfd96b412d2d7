package errors

import "errors"

var (
	ErrNotFound = errors.New("item not found")

	ErrInvalidID = errors.New("invalid item ID format")

	ErrReservationNotFound = errors.New("reservation not found")

	ErrDuplicateSerial = errors.New("serial number already registered")
)
