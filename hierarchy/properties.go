package hierarchy

import (
	"fmt"

	"github.com/c360studio/semschema/jsonld"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// PropertyEntry is the resolved form of one property.
type PropertyEntry struct {
	// UsedIn holds the labels of the classes in the property's domain.
	UsedIn []string `json:"usedIn"`
	// ValueTypes holds the labels of the classes in the property's range.
	ValueTypes []string `json:"valueTypes"`
}

// PropertyMap maps property labels to entries, keeping encounter order.
type PropertyMap struct {
	order   []string
	entries map[string]PropertyEntry
}

// NewPropertyMap returns an empty map.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{entries: make(map[string]PropertyEntry)}
}

// Len returns the number of properties.
func (m *PropertyMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Labels returns the property labels in encounter order.
func (m *PropertyMap) Labels() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.order...)
}

// Get returns the entry for label.
func (m *PropertyMap) Get(label string) (PropertyEntry, bool) {
	if m == nil {
		return PropertyEntry{}, false
	}
	e, ok := m.entries[label]
	return e, ok
}

// Set stores the entry for label. A repeated label replaces the entry but
// keeps its first position.
func (m *PropertyMap) Set(label string, e PropertyEntry) {
	if _, ok := m.entries[label]; !ok {
		m.order = append(m.order, label)
	}
	m.entries[label] = e
}

// Map returns the entries keyed by label.
func (m *PropertyMap) Map() map[string]PropertyEntry {
	out := make(map[string]PropertyEntry, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// ownIndex maps each class label to the properties whose domain includes it,
// in property encounter order.
func (m *PropertyMap) ownIndex() map[string][]string {
	idx := make(map[string][]string)
	for _, label := range m.order {
		for _, class := range m.entries[label].UsedIn {
			idx[class] = append(idx[class], label)
		}
	}
	return idx
}

// ParseProperties resolves property items. Properties missing a domain or a
// range are dropped; the number dropped is returned alongside the map.
func ParseProperties(items []jsonld.Item) (*PropertyMap, int, error) {
	m := NewPropertyMap()
	dropped := 0
	for _, it := range items {
		if !jsonld.IsProperty(it) {
			return nil, 0, fmt.Errorf("%w: %s is not a property", ErrClassification, it)
		}
		if !it.Has(schemaorg.DomainIncludes) || !it.Has(schemaorg.RangeIncludes) {
			dropped++
			continue
		}
		label, err := jsonld.ExtractLabel(it)
		if err != nil {
			return nil, 0, err
		}
		m.Set(label, PropertyEntry{
			UsedIn:     labelsOf(it.Refs(schemaorg.DomainIncludes)),
			ValueTypes: labelsOf(it.Refs(schemaorg.RangeIncludes)),
		})
	}
	return m, dropped, nil
}

func labelsOf(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		label := jsonld.LabelFromID(id)
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}
