package hierarchy

import "fmt"

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// CycleError reports a cycle reached at Label.
type CycleError struct {
	Label string
}

func (e CycleError) Error() string {
	return fmt.Sprintf("%s: reached %q again while descending", ErrCycle, e.Label)
}

func (e CycleError) Unwrap() error {
	return ErrCycle
}

// DetectCycle walks child edges from every node and reports the first cycle.
func DetectCycle(g *Graph) error {
	states := make(map[string]visitState, g.Len())

	var visit func(label string) error
	visit = func(label string) error {
		switch states[label] {
		case stateVisiting:
			return CycleError{Label: label}
		case stateDone:
			return nil
		}
		states[label] = stateVisiting
		for _, child := range g.nodes[label].Children {
			if err := visit(child); err != nil {
				return err
			}
		}
		states[label] = stateDone
		return nil
	}

	for _, label := range g.order {
		if err := visit(label); err != nil {
			return err
		}
	}
	return nil
}
