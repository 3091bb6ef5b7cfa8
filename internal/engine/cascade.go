package engine

import (
	"context"
	"fmt"

	"github.com/steadyhq/stride/internal/core/eventbus"
	"github.com/steadyhq/stride/internal/core/plan"
	"github.com/steadyhq/stride/pkg/dates"
)

// ExtendDeadline pushes a step's due date out by the given number of days and
// shifts every downstream step (dependents and later-ordered steps) that has
// a due date by the same amount. A step with no due date cannot be extended;
// the call is a no-op. Returns the number of downstream steps shifted.
func (s *ScheduleService) ExtendDeadline(ctx context.Context, stepID string, days int) (int, error) {
	anchor, err := s.steps.Get(ctx, stepID)
	if err != nil {
		return 0, fmt.Errorf("get step: %w", err)
	}

	unlock := s.locks.Lock(anchor.GoalID)
	defer unlock()

	// Re-read under the lock. A concurrent cascade may have moved the
	// anchor since the first read.
	anchor, err = s.steps.Get(ctx, stepID)
	if err != nil {
		return 0, fmt.Errorf("get step: %w", err)
	}
	if anchor.DueDate == nil {
		s.log.Debug().
			Str("step_id", stepID).
			Msg("step has no due date, nothing to extend")
		return 0, nil
	}

	newDue := dates.AddDays(*anchor.DueDate, days)
	if err := s.steps.UpdateDueDate(ctx, anchor.ID, &newDue); err != nil {
		return 0, fmt.Errorf("extend step %q: %w", anchor.ID, err)
	}

	all, err := s.steps.ListByGoal(ctx, anchor.GoalID)
	if err != nil {
		return 0, fmt.Errorf("list steps: %w", err)
	}

	shifted := 0
	for _, st := range all {
		if !plan.Downstream(anchor, st) || st.DueDate == nil {
			continue
		}
		due := dates.AddDays(*st.DueDate, days)
		if err := s.steps.UpdateDueDate(ctx, st.ID, &due); err != nil {
			return shifted, fmt.Errorf("shift step %q: %w", st.ID, err)
		}
		shifted++
	}

	s.log.Info().
		Str("step_id", anchor.ID).
		Int("days", days).
		Int("shifted", shifted).
		Msg("deadline extended")

	anchor.DueDate = &newDue
	s.bus.PublishDeadlineExtended(eventbus.DeadlineExtendedPayload{
		Step:    &anchor,
		Days:    days,
		Shifted: shifted,
	})
	return shifted, nil
}

// AdjustFromStep respaces all steps after the anchor with a new interval.
// Each later step (by order index) gets anchor due + rank * intervalDays,
// whether or not it had a due date before. The anchor itself is untouched;
// when it has no due date, today anchors the new spacing. Returns the number
// of steps whose due dates were rewritten.
func (s *ScheduleService) AdjustFromStep(ctx context.Context, stepID string, intervalDays int) (int, error) {
	if intervalDays < 1 {
		return 0, fmt.Errorf("interval must be at least 1 day, got %d", intervalDays)
	}

	anchor, err := s.steps.Get(ctx, stepID)
	if err != nil {
		return 0, fmt.Errorf("get step: %w", err)
	}

	unlock := s.locks.Lock(anchor.GoalID)
	defer unlock()

	anchor, err = s.steps.Get(ctx, stepID)
	if err != nil {
		return 0, fmt.Errorf("get step: %w", err)
	}

	base := dates.Only(s.now())
	if anchor.DueDate != nil {
		base = *anchor.DueDate
	}

	all, err := s.steps.ListByGoal(ctx, anchor.GoalID)
	if err != nil {
		return 0, fmt.Errorf("list steps: %w", err)
	}

	// ListByGoal orders by order_index, so later steps arrive in rank order.
	affected := 0
	for _, st := range all {
		if st.OrderIndex <= anchor.OrderIndex {
			continue
		}
		due := dates.AddDays(base, (affected+1)*intervalDays)
		if err := s.steps.UpdateDueDate(ctx, st.ID, &due); err != nil {
			return affected, fmt.Errorf("respace step %q: %w", st.ID, err)
		}
		affected++
	}

	s.log.Info().
		Str("step_id", anchor.ID).
		Int("interval_days", intervalDays).
		Int("affected", affected).
		Msg("cadence adjusted")

	s.bus.PublishCadenceAdjusted(eventbus.CadenceAdjustedPayload{
		Step:         &anchor,
		IntervalDays: intervalDays,
		Affected:     affected,
	})
	return affected, nil
}
