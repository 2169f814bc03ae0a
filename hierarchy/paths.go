package hierarchy

import (
	"fmt"

	"github.com/c360studio/semschema/hierarchy/specificity"
)

// RootPolicy selects which parentless nodes seed specificity paths.
type RootPolicy string

const (
	// RootPolicyFirst seeds paths from the first root in seeding order only.
	// Nodes reachable solely from other roots get no paths.
	RootPolicyFirst RootPolicy = "first"

	// RootPolicyAll seeds paths from every root.
	RootPolicyAll RootPolicy = "all"
)

// ParseRootPolicy validates a policy name. The empty string selects
// RootPolicyFirst.
func ParseRootPolicy(s string) (RootPolicy, error) {
	switch RootPolicy(s) {
	case "", RootPolicyFirst:
		return RootPolicyFirst, nil
	case RootPolicyAll:
		return RootPolicyAll, nil
	default:
		return "", fmt.Errorf("unknown root policy %q (want %q or %q)", s, RootPolicyFirst, RootPolicyAll)
	}
}

// PathReport summarizes a specificity path computation.
type PathReport struct {
	// Roots lists every parentless node in seeding order.
	Roots []string
	// Seeded lists the roots paths were propagated from.
	Seeded []string
	// Uncovered lists the roots that were not seeded.
	Uncovered []string
	// Paths is the total number of paths over all nodes.
	Paths int
}

// ComputeSpecificityPaths populates SpecificityPaths on every node reachable
// from the seeded roots. Each root gets the single path [root]; every path of
// a node extended by a child's label becomes a path of that child. Existing
// paths are discarded first, so the computation can be repeated.
func ComputeSpecificityPaths(g *Graph, policy RootPolicy) (PathReport, error) {
	var report PathReport
	if g.Len() == 0 {
		return report, nil
	}
	if err := DetectCycle(g); err != nil {
		return report, err
	}

	for _, n := range g.nodes {
		n.SpecificityPaths = nil
	}

	report.Roots = g.Roots()
	switch policy {
	case RootPolicyAll:
		report.Seeded = report.Roots
	default:
		if len(report.Roots) > 0 {
			report.Seeded = report.Roots[:1]
			report.Uncovered = report.Roots[1:]
		}
	}

	for _, root := range report.Seeded {
		n := g.nodes[root]
		if n.addPath(root) {
			g.propagate(n, []string{root})
		}
	}

	for _, n := range g.nodes {
		report.Paths += len(n.SpecificityPaths)
	}
	return report, nil
}

// propagate pushes fresh paths of n down to its descendants. Only paths a
// child did not already hold travel further, which yields the same paths in
// the same order as re-walking every path on each visit.
func (g *Graph) propagate(n *Node, fresh []string) {
	for _, label := range n.Children {
		child := g.nodes[label]
		var added []string
		for _, p := range fresh {
			candidate := specificity.Append(p, label)
			if child.addPath(candidate) {
				added = append(added, candidate)
			}
		}
		if len(added) > 0 {
			g.propagate(child, added)
		}
	}
}
