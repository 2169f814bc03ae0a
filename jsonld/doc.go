// Package jsonld decodes schema.org JSON-LD releases into flat items and
// classifies them.
//
// Every item of a release's @graph is either a property (@type rdf:Property) or
// a schema (anything else). Field shapes that may be a single {"@id": ...}
// object or an array of them are normalized at this boundary by Item.Refs, so
// downstream code only ever sees slices of IDs.
package jsonld
