package hierarchy

import (
	"fmt"
	"slices"

	"github.com/c360studio/semschema/jsonld"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// Node is one class, data type or enumeration member in the hierarchy.
type Node struct {
	Label    string
	Children []string
	Parents  []string

	// SpecificityPaths holds every root-to-node path, dot-joined. It is
	// populated by ComputeSpecificityPaths.
	SpecificityPaths []string
}

func (n *Node) addPath(path string) bool {
	if slices.Contains(n.SpecificityPaths, path) {
		return false
	}
	n.SpecificityPaths = append(n.SpecificityPaths, path)
	return true
}

// Graph holds nodes keyed by label, remembering the order they were seeded.
type Graph struct {
	order        []string
	nodes        map[string]*Node
	placeholders []string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// Labels returns node labels in seeding order.
func (g *Graph) Labels() []string {
	return append([]string(nil), g.order...)
}

// Node returns the node for label.
func (g *Graph) Node(label string) (*Node, bool) {
	n, ok := g.nodes[label]
	return n, ok
}

// Roots returns the labels of parentless nodes in seeding order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, label := range g.order {
		if len(g.nodes[label].Parents) == 0 {
			roots = append(roots, label)
		}
	}
	return roots
}

// Placeholders returns the labels that were referenced as a parent but never
// declared by an item.
func (g *Graph) Placeholders() []string {
	return append([]string(nil), g.placeholders...)
}

// AddNode seeds a node for label unless one exists. It reports whether the
// node was created.
func (g *Graph) AddNode(label string) (*Node, bool) {
	if n, ok := g.nodes[label]; ok {
		return n, false
	}
	n := &Node{Label: label, Children: []string{}, Parents: []string{}}
	g.nodes[label] = n
	g.order = append(g.order, label)
	return n, true
}

// AddEdge records parent as a parent of child and child as a child of parent.
// A pair is recorded once no matter how often it is added. Unknown labels are
// seeded as placeholders.
func (g *Graph) AddEdge(parent, child string) {
	p := g.ensure(parent)
	c := g.ensure(child)
	if !slices.Contains(p.Children, child) {
		p.Children = append(p.Children, child)
	}
	if !slices.Contains(c.Parents, parent) {
		c.Parents = append(c.Parents, parent)
	}
}

func (g *Graph) ensure(label string) *Node {
	n, created := g.AddNode(label)
	if created {
		g.placeholders = append(g.placeholders, label)
	}
	return n
}

// ParseSchemas builds the hierarchy graph from schema items. All nodes are
// seeded before any edge is added, so item order does not affect edges.
func ParseSchemas(items []jsonld.Item) (*Graph, error) {
	g := NewGraph()
	labels := make([]string, len(items))
	for i, it := range items {
		if !jsonld.IsSchema(it) {
			return nil, fmt.Errorf("%w: %s is not a schema", ErrClassification, it)
		}
		label, err := jsonld.ExtractLabel(it)
		if err != nil {
			return nil, err
		}
		labels[i] = label
		g.AddNode(label)
	}
	g.AddNode(schemaorg.DataTypeLabel)
	g.AddNode(schemaorg.ClassLabel)

	for i, it := range items {
		label := labels[i]

		for _, id := range it.Refs(schemaorg.SubClassOf) {
			g.AddEdge(jsonld.LabelFromID(id), label)
		}

		types := it.Types()
		if isSpecificType(it) {
			for _, t := range types {
				if t == schemaorg.DataType {
					continue
				}
				g.AddEdge(jsonld.LabelFromType(t), label)
			}
		}

		if slices.Contains(types, schemaorg.DataType) {
			g.AddEdge(schemaorg.DataTypeLabel, label)
		}
	}
	return g, nil
}

// isSpecificType reports whether @type names something more specific than the
// generic class marker: a non-empty array, or any other single type.
func isSpecificType(it jsonld.Item) bool {
	switch t := it[jsonld.KeyType].(type) {
	case []any:
		return len(t) > 0
	case string:
		return t != "" && t != schemaorg.ClassMarker
	default:
		return false
	}
}
