// Package checkin defines check-in records and responses. A check-in is a
// user-submitted progress report on a step; records drive both step status
// transitions and adaptive feedback.
package checkin

import (
	"time"

	"github.com/steadyhq/stride/internal/core/goal"
	"github.com/steadyhq/stride/internal/core/step"
)

// Record is a persisted check-in.
type Record struct {
	ID           string    `json:"id"`
	StepID       string    `json:"step_id"`
	GoalID       string    `json:"goal_id"`
	Completed    bool      `json:"completed"`
	Confidence   int       `json:"confidence"`
	Blockers     string    `json:"blockers,omitempty"`
	NeedsHelp    bool      `json:"needs_help"`
	Reflection   string    `json:"reflection,omitempty"`
	MinutesSpent int       `json:"minutes_spent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Response is the user's answer to a check-in prompt.
// Confidence is a 1-5 self-assessment, 5 meaning fully confident.
type Response struct {
	StepID       string `json:"step_id" validate:"required"`
	Completed    bool   `json:"completed"`
	Confidence   int    `json:"confidence" validate:"min=1,max=5"`
	Blockers     string `json:"blockers,omitempty"`
	NeedsHelp    bool   `json:"needs_help"`
	Reflection   string `json:"reflection,omitempty"`
	MinutesSpent int    `json:"minutes_spent,omitempty" validate:"min=0"`
}

// Prompt wraps a step that needs a check-in. Derived on demand, never persisted.
type Prompt struct {
	Step        step.Step `json:"step"`
	Goal        goal.Goal `json:"goal"`
	DaysPastDue int       `json:"days_past_due"`
	IsUrgent    bool      `json:"is_urgent"`
}
