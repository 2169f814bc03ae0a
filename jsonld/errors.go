package jsonld

import "errors"

var (
	// ErrClassification is returned when an item is not of the expected kind or
	// lacks a usable label.
	ErrClassification = errors.New("classification error")

	// ErrMalformed is returned when a document is not a JSON-LD graph.
	ErrMalformed = errors.New("malformed JSON-LD document")
)
