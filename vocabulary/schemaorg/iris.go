package schemaorg

import "strings"

// Namespace is the canonical schema.org IRI prefix. Items decoded from a
// document using the https namespace or the "schema:" compact prefix are
// rewritten to this form.
const Namespace = "http://schema.org/"

// Alternate spellings of Namespace found in published releases.
const (
	SecureNamespace = "https://schema.org/"
	CompactPrefix   = "schema:"
)

// Archive containers. Items declaring isPartOf one of these are retired terms.
const (
	Attic       = "http://attic.schema.org"
	SecureAttic = "https://attic.schema.org"
)

// RDF and RDFS terms as they appear (compacted) in schema.org releases.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"

	// PropertyMarker is the @type of every property item.
	PropertyMarker = "rdf:Property"

	// ClassMarker is the generic @type of class items.
	ClassMarker = "rdfs:Class"

	Label      = "rdfs:label"
	Comment    = "rdfs:comment"
	SubClassOf = "rdfs:subClassOf"

	RDFType        = RDFNamespace + "type"
	RDFProperty    = RDFNamespace + "Property"
	RDFSClass      = RDFSNamespace + "Class"
	RDFSLabel      = RDFSNamespace + "label"
	RDFSComment    = RDFSNamespace + "comment"
	RDFSSubClassOf = RDFSNamespace + "subClassOf"
)

// Labels of the synthetic hierarchy nodes.
const (
	DataTypeLabel = "DataType"
	ClassLabel    = "Class"
)

// schema.org terms.
const (
	DataType       = Namespace + "DataType"
	DomainIncludes = Namespace + "domainIncludes"
	RangeIncludes  = Namespace + "rangeIncludes"
	IsPartOf       = Namespace + "isPartOf"
)

// Canonical rewrites an IRI or compact name in the schema.org namespace to the
// canonical http form. Other values are returned unchanged.
func Canonical(s string) string {
	switch {
	case strings.HasPrefix(s, CompactPrefix):
		return Namespace + s[len(CompactPrefix):]
	case strings.HasPrefix(s, SecureNamespace):
		return Namespace + s[len(SecureNamespace):]
	default:
		return s
	}
}

// IsArchive reports whether id names an archive container.
func IsArchive(id string) bool {
	id = strings.TrimSuffix(id, "/")
	return id == Attic || id == SecureAttic
}
