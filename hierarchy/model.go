package hierarchy

import (
	"fmt"
	"sort"

	"github.com/goccy/go-json"
)

const (
	ownKey = "own"
	allKey = "all"
)

// Model is the resolved vocabulary: every class with its inherited property
// sets, and every property with its domain and range.
type Model struct {
	Schemas    map[string]*ResolvedSchema `json:"schemas"`
	Properties map[string]PropertyEntry   `json:"properties"`
}

// ResolvedSchema is one class of the resolved model.
type ResolvedSchema struct {
	Children   []string     `json:"children"`
	Parents    []string     `json:"parents"`
	Properties PropertySets `json:"properties"`
}

// PropertySets holds the property sets of one class. It serializes as a flat
// object with the keys "own", "all" and one key per ancestor.
type PropertySets struct {
	// Own holds the properties declared directly on the class.
	Own []string
	// All holds the union of Own over the class and all of its ancestors.
	All []string
	// Ancestors maps each ancestor to the properties it declares itself.
	Ancestors map[string][]string
}

// MarshalJSON implements json.Marshaler.
func (p PropertySets) MarshalJSON() ([]byte, error) {
	flat := make(map[string][]string, len(p.Ancestors)+2)
	for k, v := range p.Ancestors {
		flat[k] = nonNil(v)
	}
	flat[ownKey] = nonNil(p.Own)
	flat[allKey] = nonNil(p.All)
	return json.Marshal(flat)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PropertySets) UnmarshalJSON(data []byte) error {
	var flat map[string][]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("decode property sets: %w", err)
	}
	p.Own = nonNil(flat[ownKey])
	p.All = nonNil(flat[allKey])
	p.Ancestors = make(map[string][]string, len(flat))
	for k, v := range flat {
		if k == ownKey || k == allKey {
			continue
		}
		p.Ancestors[k] = nonNil(v)
	}
	return nil
}

// AncestorLabels returns the ancestor keys in sorted order.
func (p PropertySets) AncestorLabels() []string {
	labels := make([]string, 0, len(p.Ancestors))
	for k := range p.Ancestors {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// Labels returns the class labels in sorted order.
func (m *Model) Labels() []string {
	labels := make([]string, 0, len(m.Schemas))
	for k := range m.Schemas {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// PropertyLabels returns the property labels in sorted order.
func (m *Model) PropertyLabels() []string {
	labels := make([]string, 0, len(m.Properties))
	for k := range m.Properties {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// Graph rebuilds the hierarchy graph from the model's parent lists, in label
// order. Specificity paths are not set.
func (m *Model) Graph() *Graph {
	g := NewGraph()
	labels := m.Labels()
	for _, label := range labels {
		g.AddNode(label)
	}
	for _, label := range labels {
		for _, parent := range m.Schemas[label].Parents {
			g.AddEdge(parent, label)
		}
	}
	return g
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
