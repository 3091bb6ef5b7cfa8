package eventbus

import (
	"github.com/steadyhq/stride/internal/core/notify"
	"github.com/steadyhq/stride/pkg/dates"
)

// NotificationRouter maps domain events to user-facing notifications.
type NotificationRouter struct {
	bus      *EventBus
	notifier *notify.Bus
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus, notifier *notify.Bus) *NotificationRouter {
	return &NotificationRouter{bus: bus, notifier: notifier}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil || r.notifier == nil {
		return
	}

	r.bus.SubscribeGoalScheduled(func(p GoalScheduledPayload) {
		if p.Goal == nil {
			return
		}
		r.notifier.Infof("scheduled %d steps for %q every %d days", p.Scheduled, p.Goal.Title, p.Cadence.IntervalDays)
	})

	r.bus.SubscribeDeadlineExtended(func(p DeadlineExtendedPayload) {
		if p.Step == nil {
			return
		}
		r.notifier.Infof("gave %q %d more days, %d later steps shifted", p.Step.Title, p.Days, p.Shifted)
	})

	r.bus.SubscribeCadenceAdjusted(func(p CadenceAdjustedPayload) {
		if p.Step == nil {
			return
		}
		r.notifier.Infof("respaced %d steps after %q to every %d days", p.Affected, p.Step.Title, p.IntervalDays)
	})

	r.bus.SubscribeMilestoneUpcoming(func(p MilestoneUpcomingPayload) {
		if p.Goal == nil || p.Milestone == nil || p.Milestone.DueDate == nil {
			return
		}
		r.notifier.Warnf("milestone for %q is due %s, %d days away", p.Goal.Title, dates.Format(*p.Milestone.DueDate), p.DaysAway)
	})
}
