package plan

import (
	"fmt"
	"time"

	"github.com/steadyhq/stride/internal/core/step"
)

// DefaultGroupSize is the number of steps per milestone window.
const DefaultGroupSize = 3

// Milestone is a presentation-level grouping of consecutive steps. It is
// derived on demand and never persisted.
type Milestone struct {
	ID      string      `json:"id"`
	Steps   []step.Step `json:"steps"`
	DueDate *time.Time  `json:"due_date,omitempty"`
}

// GroupMilestones partitions steps into consecutive windows of groupSize,
// sorted by order_index. Dependency edges play no part in grouping. Each
// window's due date is the due date of its last step, which may be unset.
//
// A groupSize below 1 falls back to DefaultGroupSize. Calling twice on the
// same step list yields identical groups.
func GroupMilestones(steps []step.Step, groupSize int) []Milestone {
	if groupSize < 1 {
		groupSize = DefaultGroupSize
	}
	if len(steps) == 0 {
		return []Milestone{}
	}

	sorted := make([]step.Step, len(steps))
	copy(sorted, steps)
	sortByOrderIndex(sorted)

	groups := make([]Milestone, 0, (len(sorted)+groupSize-1)/groupSize)
	for start := 0; start < len(sorted); start += groupSize {
		end := min(start+groupSize, len(sorted))
		window := sorted[start:end]

		m := Milestone{
			ID:    fmt.Sprintf("milestone-%d", len(groups)+1),
			Steps: window,
		}
		if due := window[len(window)-1].DueDate; due != nil {
			d := *due
			m.DueDate = &d
		}
		groups = append(groups, m)
	}

	return groups
}
