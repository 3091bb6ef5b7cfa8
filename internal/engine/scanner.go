package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/steadyhq/stride/internal/core/eventbus"
	"github.com/steadyhq/stride/internal/core/goal"
	"github.com/steadyhq/stride/internal/core/plan"
	"github.com/steadyhq/stride/internal/core/step"
	"github.com/steadyhq/stride/pkg/dates"
)

// ScanService finds milestones whose due dates are approaching across a
// user's active goals.
type ScanService struct {
	goals      goal.Store
	steps      step.Store
	bus        *eventbus.EventBus
	windowDays int
	groupSize  int
	log        zerolog.Logger
	now        func() time.Time
}

func NewScanService(
	goals goal.Store,
	steps step.Store,
	bus *eventbus.EventBus,
	windowDays int,
	groupSize int,
	logger zerolog.Logger,
) *ScanService {
	return &ScanService{
		goals:      goals,
		steps:      steps,
		bus:        bus,
		windowDays: windowDays,
		groupSize:  groupSize,
		log:        logger.With().Str("cmp", "scanner").Logger(),
		now:        time.Now,
	}
}

// UpcomingMilestone identifies a milestone due in exactly the scan window.
type UpcomingMilestone struct {
	Goal      goal.Goal      `json:"goal"`
	Milestone plan.Milestone `json:"milestone"`
	DaysAway  int            `json:"days_away"`
}

// ScanUpcoming groups each active goal's steps into milestones and returns
// those due exactly windowDays from today. A goal whose steps cannot be
// loaded is logged and skipped so one bad goal does not abort the scan.
func (s *ScanService) ScanUpcoming(ctx context.Context, userID string) ([]UpcomingMilestone, error) {
	goals, err := s.goals.List(ctx, goal.ListFilter{UserID: userID, Status: goal.StatusActive})
	if err != nil {
		return nil, fmt.Errorf("list active goals: %w", err)
	}

	today := dates.Only(s.now())

	var upcoming []UpcomingMilestone
	for _, g := range goals {
		steps, err := s.steps.ListByGoal(ctx, g.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("goal_id", g.ID).Msg("skipping goal in milestone scan")
			continue
		}

		for _, m := range plan.GroupMilestones(steps, s.groupSize) {
			if m.DueDate == nil {
				continue
			}
			if dates.Between(today, *m.DueDate) != s.windowDays {
				continue
			}
			upcoming = append(upcoming, UpcomingMilestone{
				Goal:      g,
				Milestone: m,
				DaysAway:  s.windowDays,
			})
			s.bus.PublishMilestoneUpcoming(eventbus.MilestoneUpcomingPayload{
				Goal:      &g,
				Milestone: &m,
				DaysAway:  s.windowDays,
			})
		}
	}

	s.log.Debug().
		Str("user_id", userID).
		Int("goals", len(goals)).
		Int("upcoming", len(upcoming)).
		Msg("milestone scan complete")
	return upcoming, nil
}
