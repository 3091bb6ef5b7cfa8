// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within stride.
package eventbus

import (
	"github.com/steadyhq/stride/internal/core/checkin"
	"github.com/steadyhq/stride/internal/core/goal"
	"github.com/steadyhq/stride/internal/core/plan"
	"github.com/steadyhq/stride/internal/core/step"
)

// Event identifies an event type on the bus.
type Event string

// Event names. Keep list sorted A-Z.
const (
	EventCadenceAdjusted   Event = "cadence.adjusted"
	EventCheckInRecorded   Event = "checkin.recorded"
	EventDeadlineExtended  Event = "deadline.extended"
	EventGoalScheduled     Event = "goal.scheduled"
	EventMilestoneUpcoming Event = "milestone.upcoming"
)

// GoalScheduledPayload is emitted when a goal's steps receive due dates.
type GoalScheduledPayload struct {
	Goal      *goal.Goal
	Scheduled int
	Cadence   plan.Cadence
}

// DeadlineExtendedPayload is emitted when a step's deadline is extended
// and the shift cascaded downstream.
type DeadlineExtendedPayload struct {
	Step    *step.Step
	Days    int
	Shifted int
}

// CadenceAdjustedPayload is emitted when due dates are respaced from an
// anchor step with a new interval.
type CadenceAdjustedPayload struct {
	Step         *step.Step
	IntervalDays int
	Affected     int
}

// CheckInRecordedPayload is emitted when a check-in response is recorded.
type CheckInRecordedPayload struct {
	Record   *checkin.Record
	Feedback plan.Feedback
}

// MilestoneUpcomingPayload is emitted when a scan finds a milestone due
// in exactly the configured number of days.
type MilestoneUpcomingPayload struct {
	Goal      *goal.Goal
	Milestone *plan.Milestone
	DaysAway  int
}
