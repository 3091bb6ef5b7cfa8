// Package advisory integrates an optional advice oracle that can refine the
// static check-in feedback with a better-worded message and a recommended due
// date. The oracle never gates correctness: callers fall back to the static
// decision table on any error, timeout, or absence.
package advisory

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when the oracle is disabled or cannot be reached.
var ErrUnavailable = errors.New("advisory oracle unavailable")

// AdjustmentRequest describes a check-in outcome for the oracle to comment on.
type AdjustmentRequest struct {
	GoalTitle      string     `json:"goal_title"`
	StepTitle      string     `json:"step_title"`
	Completed      bool       `json:"completed"`
	Confidence     int        `json:"confidence"`
	Blockers       string     `json:"blockers,omitempty"`
	CurrentDueDate *time.Time `json:"current_due_date,omitempty"`
	ExtendDueDate  bool       `json:"extend_due_date"`
	BreakDownStep  bool       `json:"break_down_step"`
}

// Advice is the oracle's refinement. Message replaces the static
// encouragement when non-empty; RecommendedDueDate, when set, overrides the
// default extension length.
type Advice struct {
	Message            string
	RecommendedDueDate *time.Time
}

// Advisor is the oracle contract. Implementations must honor ctx deadlines.
type Advisor interface {
	Refine(ctx context.Context, req AdjustmentRequest) (Advice, error)
}
