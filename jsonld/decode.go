package jsonld

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

type document struct {
	Graph []Item `json:"@graph"`
}

// Decode reads a JSON-LD document and returns its @graph items with
// schema.org names rewritten to the canonical http namespace. A bare JSON
// array of items is accepted as well.
func Decode(r io.Reader) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Parse(data)
}

// Parse is Decode over an in-memory document.
func Parse(data []byte) ([]Item, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}

	var raw []Item
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case '{':
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		raw = doc.Graph
	default:
		return nil, fmt.Errorf("%w: expected object or array", ErrMalformed)
	}

	items := make([]Item, 0, len(raw))
	for _, it := range raw {
		if it == nil {
			continue
		}
		items = append(items, Canonicalize(it))
	}
	return items, nil
}

// Canonicalize returns a copy of it with schema.org keys, @id values and @type
// values in the canonical namespace. Literal values are left untouched.
func Canonicalize(it Item) Item {
	return Item(canonicalMap(it))
}

func canonicalMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[schemaorg.Canonical(k)] = canonicalValue(k, v)
	}
	return out
}

func canonicalValue(key string, v any) any {
	switch t := v.(type) {
	case string:
		if key == KeyID || key == KeyType {
			return schemaorg.Canonical(t)
		}
		return t
	case map[string]any:
		return canonicalMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = canonicalValue(key, e)
		}
		return out
	default:
		return v
	}
}
