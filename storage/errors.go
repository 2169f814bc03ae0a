package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when no model is stored for a version.
	ErrNotFound = errors.New("model not found")

	// ErrInvalidKey is returned when a key does not map back to a version.
	ErrInvalidKey = errors.New("invalid model key")
)
