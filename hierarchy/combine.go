package hierarchy

import (
	"fmt"
	"slices"
	"sort"

	"github.com/c360studio/semschema/hierarchy/specificity"
)

// Combine flattens the graph and properties into a Model. For each node the
// ancestors are the distinct labels on its specificity paths plus the node
// itself; "all" is the union of every ancestor's own properties. All lists in
// the result are deduplicated and sorted.
func Combine(props *PropertyMap, g *Graph) (*Model, error) {
	if props.Len() == 0 {
		return nil, fmt.Errorf("%w: combine needs at least one property", ErrEmptyResult)
	}
	if g.Len() == 0 {
		return nil, fmt.Errorf("%w: combine needs at least one schema", ErrEmptyResult)
	}

	own := props.ownIndex()
	m := &Model{
		Schemas:    make(map[string]*ResolvedSchema, g.Len()),
		Properties: props.Map(),
	}

	for _, label := range g.order {
		n := g.nodes[label]
		ancestors := ancestorsOf(n)

		sets := PropertySets{
			Own:       sortedSet(own[label]),
			Ancestors: make(map[string][]string, len(ancestors)),
		}
		var all []string
		for _, a := range ancestors {
			all = append(all, own[a]...)
			if a != label {
				sets.Ancestors[a] = sortedSet(own[a])
			}
		}
		sets.All = sortedSet(all)

		m.Schemas[label] = &ResolvedSchema{
			Children:   sortedSet(n.Children),
			Parents:    sortedSet(n.Parents),
			Properties: sets,
		}
	}
	return m, nil
}

// ancestorsOf returns the distinct labels on every path of n, including n.
func ancestorsOf(n *Node) []string {
	seen := map[string]struct{}{n.Label: {}}
	out := []string{n.Label}
	for _, p := range n.SpecificityPaths {
		for _, label := range specificity.Split(p) {
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			out = append(out, label)
		}
	}
	return out
}

func sortedSet(in []string) []string {
	out := slices.Clone(in)
	if out == nil {
		return []string{}
	}
	sort.Strings(out)
	return slices.Compact(out)
}
