package jsonld

import (
	"github.com/goccy/go-json"
)

// JSON-LD keywords.
const (
	KeyID       = "@id"
	KeyType     = "@type"
	KeyValue    = "@value"
	KeyLanguage = "@language"
	KeyGraph    = "@graph"
	KeyContext  = "@context"
)

// Item is one node of a JSON-LD @graph, keyed by expanded property IRI or
// compact RDF/RDFS name.
type Item map[string]any

// ID returns the item's @id, or "" when absent.
func (it Item) ID() string {
	id, _ := it[KeyID].(string)
	return id
}

// Types returns @type normalized to a slice. A missing @type yields nil.
func (it Item) Types() []string {
	return stringsOf(it[KeyType])
}

// Refs returns the @id values referenced by key, accepting a single reference
// object, an array of them, or bare strings. A missing key yields nil.
func (it Item) Refs(key string) []string {
	switch v := it[key].(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if id := refID(e); id != "" {
				out = append(out, id)
			}
		}
		return out
	default:
		if id := refID(v); id != "" {
			return []string{id}
		}
		return []string{}
	}
}

// Text returns the literal value of key. Language-tagged literals use the
// @value member; when several are given the English one wins.
func (it Item) Text(key string) string {
	return textOf(it[key])
}

// Has reports whether key is present with a non-null value.
func (it Item) Has(key string) bool {
	v, ok := it[key]
	return ok && v != nil
}

// String returns the item serialized as JSON, for error messages.
func (it Item) String() string {
	b, err := json.Marshal(map[string]any(it))
	if err != nil {
		return "<unserializable item>"
	}
	return string(b)
}

func refID(v any) string {
	switch r := v.(type) {
	case string:
		return r
	case map[string]any:
		id, _ := r[KeyID].(string)
		return id
	default:
		return ""
	}
}

func stringsOf(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return nil
	}
}
