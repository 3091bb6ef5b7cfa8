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

// ScheduleService assigns and maintains step due dates for a goal. All
// writes to a goal's schedule funnel through here so they can be serialized
// per goal.
type ScheduleService struct {
	goals  goal.Store
	steps  step.Store
	bus    *eventbus.EventBus
	policy plan.ExtensionPolicy
	locks  *goalLocks
	log    zerolog.Logger
	now    func() time.Time
}

func NewScheduleService(
	goals goal.Store,
	steps step.Store,
	bus *eventbus.EventBus,
	policy plan.ExtensionPolicy,
	logger zerolog.Logger,
) *ScheduleService {
	return &ScheduleService{
		goals:  goals,
		steps:  steps,
		bus:    bus,
		policy: policy,
		locks:  newGoalLocks(),
		log:    logger.With().Str("cmp", "scheduler").Logger(),
		now:    time.Now,
	}
}

// AutoSchedule computes due dates for every step of the goal and writes them
// back. Steps are visited in dependency order and spaced by the goal's
// cadence interval starting from the goal's start date. It returns the number
// of steps scheduled; a goal with no steps is a no-op.
func (s *ScheduleService) AutoSchedule(ctx context.Context, goalID string) (int, error) {
	g, err := s.goals.Get(ctx, goalID)
	if err != nil {
		return 0, fmt.Errorf("get goal: %w", err)
	}

	unlock := s.locks.Lock(goalID)
	defer unlock()

	steps, err := s.steps.ListByGoal(ctx, goalID)
	if err != nil {
		return 0, fmt.Errorf("list steps: %w", err)
	}
	if len(steps) == 0 {
		return 0, nil
	}

	ordered, fellBack := plan.ResolveOrder(steps)
	if fellBack {
		s.log.Warn().
			Str("goal_id", goalID).
			Msg("dependency cycle detected, scheduling by order index")
	}

	cadence := plan.ParseCadence(g, s.now())

	for i, st := range ordered {
		due := dates.AddDays(cadence.StartDate, i*cadence.IntervalDays)
		if err := s.steps.UpdateDueDate(ctx, st.ID, &due); err != nil {
			return i, fmt.Errorf("set due date for step %q: %w", st.ID, err)
		}
	}

	s.log.Info().
		Str("goal_id", goalID).
		Int("steps", len(ordered)).
		Str("frequency", string(cadence.Frequency)).
		Int("interval_days", cadence.IntervalDays).
		Msg("goal scheduled")

	s.bus.PublishGoalScheduled(eventbus.GoalScheduledPayload{
		Goal:      &g,
		Scheduled: len(ordered),
		Cadence:   cadence,
	})
	return len(ordered), nil
}

// DefaultExtensionDays returns the extension length the policy grants a step
// based on its estimated effort.
func (s *ScheduleService) DefaultExtensionDays(st step.Step) int {
	return s.policy.ExtensionDays(st.EstimatedEffortMin)
}
