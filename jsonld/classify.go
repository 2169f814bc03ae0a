package jsonld

import (
	"fmt"
	"strings"

	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// IsProperty reports whether the item declares @type rdf:Property.
func IsProperty(it Item) bool {
	t, ok := it[KeyType].(string)
	return ok && t == schemaorg.PropertyMarker
}

// IsSchema reports whether the item is a class, data type or enumeration
// member, i.e. anything that is not a property.
func IsSchema(it Item) bool {
	return !IsProperty(it)
}

// Split partitions items into schemas and properties, preserving order.
func Split(items []Item) (schemas, properties []Item) {
	for _, it := range items {
		if IsProperty(it) {
			properties = append(properties, it)
		} else {
			schemas = append(schemas, it)
		}
	}
	return schemas, properties
}

// ExtractLabel returns the item's rdfs:label.
func ExtractLabel(it Item) (string, error) {
	if label := it.Text(schemaorg.Label); label != "" {
		return label, nil
	}
	return "", fmt.Errorf("%w: missing rdfs:label in %s", ErrClassification, it)
}

func textOf(v any) string {
	switch l := v.(type) {
	case string:
		return l
	case map[string]any:
		s, _ := l[KeyValue].(string)
		return s
	case []any:
		var first string
		for _, e := range l {
			s := textOf(e)
			if s == "" {
				continue
			}
			if m, ok := e.(map[string]any); ok {
				if lang, _ := m[KeyLanguage].(string); strings.HasPrefix(lang, "en") {
					return s
				}
			}
			if first == "" {
				first = s
			}
		}
		return first
	default:
		return ""
	}
}

// LabelFromID strips the schema.org namespace from id. The generic class
// marker rdfs:Class maps to the synthetic "Class" label; IDs outside the
// namespace are returned as given.
func LabelFromID(id string) string {
	if id == schemaorg.ClassMarker || id == schemaorg.RDFSClass {
		return schemaorg.ClassLabel
	}
	return strings.TrimPrefix(schemaorg.Canonical(id), schemaorg.Namespace)
}

// LabelFromType returns the label named by a non-generic @type value.
func LabelFromType(t string) string {
	return LabelFromID(t)
}
