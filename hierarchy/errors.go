package hierarchy

import (
	"errors"

	"github.com/c360studio/semschema/jsonld"
)

var (
	// ErrClassification is returned when an item of the wrong kind reaches a
	// parser, or an item has no usable label.
	ErrClassification = jsonld.ErrClassification

	// ErrPrecondition is returned when a build stage runs before its input exists.
	ErrPrecondition = errors.New("precondition failed")

	// ErrEmptyResult is returned when a stage produces or receives an empty map
	// where at least one entry is required.
	ErrEmptyResult = errors.New("empty result")

	// ErrCycle is returned when the inheritance graph contains a cycle.
	ErrCycle = errors.New("inheritance cycle")
)
