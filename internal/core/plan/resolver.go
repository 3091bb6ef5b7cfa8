// Package plan holds the pure scheduling computations: dependency ordering,
// cadence parsing, milestone grouping, and the check-in feedback table.
// Nothing in this package performs I/O; services in internal/engine wrap
// these functions with store reads and writes.
package plan

import (
	"sort"

	"github.com/steadyhq/stride/internal/core/step"
)

// ResolveOrder returns a total ordering of steps that respects dependency
// edges where possible, using order_index as the tie-breaker within each
// ready set.
//
// When the steps contain a cycle, or depend on IDs not present in the input
// (a dangling or cross-goal reference), dependency ordering is abandoned
// entirely: the whole set is returned sorted purely by order_index and the
// returned flag is true. The result always contains every input step
// exactly once.
func ResolveOrder(steps []step.Step) ([]step.Step, bool) {
	if len(steps) == 0 {
		return []step.Step{}, false
	}

	placed := make(map[string]bool, len(steps))
	ordered := make([]step.Step, 0, len(steps))
	remaining := make([]step.Step, len(steps))
	copy(remaining, steps)

	for len(remaining) > 0 {
		ready := readySet(remaining, placed)
		if len(ready) == 0 {
			// Cycle or unsatisfiable dependency. The partial order built so
			// far is discarded and order_index decides for the whole set.
			fallback := make([]step.Step, len(steps))
			copy(fallback, steps)
			sortByOrderIndex(fallback)
			return fallback, true
		}

		next := ready[0]
		ordered = append(ordered, next)
		placed[next.ID] = true
		remaining = removeStep(remaining, next.ID)
	}

	return ordered, false
}

// readySet returns the not-yet-placed steps whose every dependency is placed,
// sorted by order_index. Self-references are tolerated and do not block a
// step from becoming ready.
func readySet(remaining []step.Step, placed map[string]bool) []step.Step {
	var ready []step.Step
	for _, s := range remaining {
		ok := true
		for _, dep := range s.DependencyIDs {
			if dep == s.ID {
				continue
			}
			if !placed[dep] {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, s)
		}
	}
	sortByOrderIndex(ready)
	return ready
}

func sortByOrderIndex(steps []step.Step) {
	sort.SliceStable(steps, func(i, j int) bool {
		if steps[i].OrderIndex != steps[j].OrderIndex {
			return steps[i].OrderIndex < steps[j].OrderIndex
		}
		return steps[i].ID < steps[j].ID
	})
}

func removeStep(steps []step.Step, id string) []step.Step {
	out := steps[:0]
	for _, s := range steps {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

// Downstream reports whether candidate is logically downstream of anchor:
// it either lists anchor as a dependency or has a strictly greater
// order_index.
func Downstream(anchor, candidate step.Step) bool {
	if candidate.ID == anchor.ID {
		return false
	}
	return candidate.DependsOn(anchor.ID) || candidate.OrderIndex > anchor.OrderIndex
}
