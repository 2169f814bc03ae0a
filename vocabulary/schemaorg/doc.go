// Package schemaorg provides the schema.org IRIs understood by the resolver and the
// graph predicates used when a resolved vocabulary is published to semstreams.
//
// Predicates follow the semstreams three-level dotted notation and are registered
// in init() with their RDF IRI mappings:
//   - Class: schemaorg.class.* (label, parent, child, own_property, specificity_path)
//   - Property: schemaorg.property.* (label, used_in, value_type)
//
// Import this package to auto-register predicates:
//
//	import _ "github.com/c360studio/semschema/vocabulary/schemaorg"
package schemaorg
