package source

import "errors"

var (
	// ErrFetch is returned when a release or the version list cannot be
	// retrieved.
	ErrFetch = errors.New("fetch failed")

	// ErrNoVersion is returned when no released version qualifies.
	ErrNoVersion = errors.New("no released schema version")

	// ErrNoFiles is returned when a local glob matches nothing.
	ErrNoFiles = errors.New("no files matched")

	// ErrTooLarge is returned when a response exceeds the size limit.
	ErrTooLarge = errors.New("content too large")
)
