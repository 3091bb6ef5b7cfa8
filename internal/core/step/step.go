// Package step defines the step domain model. Steps are the atomic units of
// work inside a goal: orderable by order_index, optionally dependent on other
// steps in the same goal, and carrying an optional date-only due date.
package step

import "time"

// Status represents the lifecycle state of a step.
type Status string

const (
	StatusTodo    Status = "todo"
	StatusDoing   Status = "doing"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
)

// Valid reports whether s is a known step status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone, StatusSkipped:
		return true
	}
	return false
}

// Terminal reports whether the status ends the step's active life.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusSkipped
}

// Step is an atomic unit of work belonging to exactly one goal.
//
// DueDate is nil when the step has not been scheduled. An unset date is a
// distinct state, never the zero time and never an empty string.
// DependencyIDs holds "must finish before" edges to other steps in the same
// goal; cross-goal references are not supported.
type Step struct {
	ID                 string     `json:"id"`
	GoalID             string     `json:"goal_id"`
	Title              string     `json:"title"`
	OrderIndex         int        `json:"order_index"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	Status             Status     `json:"status"`
	DependencyIDs      []string   `json:"dependency_ids,omitempty"`
	EstimatedEffortMin int        `json:"estimated_effort_min,omitempty"`
	IsRequired         bool       `json:"is_required"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// DependsOn reports whether the step lists id as a dependency.
func (s Step) DependsOn(id string) bool {
	for _, dep := range s.DependencyIDs {
		if dep == id {
			return true
		}
	}
	return false
}
