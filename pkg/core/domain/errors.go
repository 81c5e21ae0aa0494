package domain

import "errors"

// Failure kinds the service layer reports. Handlers translate these into
// user-facing views; anything else is treated as an internal error.
var (
	ErrLinkNotFound  = errors.New("link not found")
	ErrInvalidURL    = errors.New("invalid url")
	ErrTokenMismatch = errors.New("deletion token mismatch")
	ErrConflict      = errors.New("unique constraint violated")
)
