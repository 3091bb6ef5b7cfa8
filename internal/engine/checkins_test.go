package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/steadyhq/stride/internal/core/advisory"
	"github.com/steadyhq/stride/internal/core/checkin"
	"github.com/steadyhq/stride/internal/core/eventbus"
	"github.com/steadyhq/stride/internal/core/goal"
	"github.com/steadyhq/stride/internal/core/step"
	"github.com/steadyhq/stride/pkg/dates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdvisor returns canned advice, or an error.
type stubAdvisor struct {
	advice advisory.Advice
	err    error
}

func (s stubAdvisor) Refine(_ context.Context, _ advisory.AdjustmentRequest) (advisory.Advice, error) {
	return s.advice, s.err
}

func TestCheckInService_PendingCheckIns(t *testing.T) {
	t.Run("surfaces overdue steps most overdue first", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{Status: goal.StatusActive})

		// Due five days ago, today, and tomorrow.
		late := env.createStep(step.Step{
			ID: "late", GoalID: g.ID, OrderIndex: 1,
			DueDate: dates.Ptr(dates.New(2024, time.February, 25)),
		})
		today := env.createStep(step.Step{
			ID: "today", GoalID: g.ID, OrderIndex: 2,
			DueDate: dates.Ptr(dates.New(2024, time.March, 1)),
		})
		env.createStep(step.Step{
			ID: "future", GoalID: g.ID, OrderIndex: 3,
			DueDate: dates.Ptr(dates.New(2024, time.March, 2)),
		})

		prompts, err := env.checkIn.PendingCheckIns(env.ctx, g.UserID)
		require.NoError(t, err)
		require.Len(t, prompts, 2)

		assert.Equal(t, late.ID, prompts[0].Step.ID)
		assert.Equal(t, 5, prompts[0].DaysPastDue)
		assert.True(t, prompts[0].IsUrgent)

		assert.Equal(t, today.ID, prompts[1].Step.ID)
		assert.Zero(t, prompts[1].DaysPastDue)
		assert.False(t, prompts[1].IsUrgent)
	})

	t.Run("required steps are always urgent", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{Status: goal.StatusActive})
		env.createStep(step.Step{
			ID: "must", GoalID: g.ID, OrderIndex: 1, IsRequired: true,
			DueDate: dates.Ptr(dates.New(2024, time.March, 1)),
		})

		prompts, err := env.checkIn.PendingCheckIns(env.ctx, g.UserID)
		require.NoError(t, err)
		require.Len(t, prompts, 1)
		assert.True(t, prompts[0].IsUrgent)
	})

	t.Run("finished and unscheduled steps are skipped", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{Status: goal.StatusActive})
		env.createStep(step.Step{
			ID: "done", GoalID: g.ID, OrderIndex: 1, Status: step.StatusDone,
			DueDate: dates.Ptr(dates.New(2024, time.February, 20)),
		})
		env.createStep(step.Step{
			ID: "skipped", GoalID: g.ID, OrderIndex: 2, Status: step.StatusSkipped,
			DueDate: dates.Ptr(dates.New(2024, time.February, 20)),
		})
		env.createStep(step.Step{ID: "nodate", GoalID: g.ID, OrderIndex: 3})

		prompts, err := env.checkIn.PendingCheckIns(env.ctx, g.UserID)
		require.NoError(t, err)
		assert.Empty(t, prompts)
	})

	t.Run("goal inside the cooldown window is skipped", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{Status: goal.StatusActive})
		st := env.createStep(step.Step{
			ID: "s1", GoalID: g.ID, OrderIndex: 1,
			DueDate: dates.Ptr(dates.New(2024, time.February, 25)),
		})
		require.NoError(t, env.checkins.Insert(env.ctx, &checkin.Record{
			StepID: st.ID, GoalID: g.ID, Confidence: 4,
		}))

		prompts, err := env.checkIn.PendingCheckIns(env.ctx, g.UserID)
		require.NoError(t, err)
		assert.Empty(t, prompts)
	})

	t.Run("ignores other users and inactive goals", func(t *testing.T) {
		env := newTestEnv(t)
		other := env.createGoal(goal.Goal{UserID: "user-2", Status: goal.StatusActive})
		env.createStep(step.Step{
			ID: "s1", GoalID: other.ID, OrderIndex: 1,
			DueDate: dates.Ptr(dates.New(2024, time.February, 25)),
		})
		archived := env.createGoal(goal.Goal{Status: goal.StatusArchived})
		env.createStep(step.Step{
			ID: "s2", GoalID: archived.ID, OrderIndex: 1,
			DueDate: dates.Ptr(dates.New(2024, time.February, 25)),
		})

		prompts, err := env.checkIn.PendingCheckIns(env.ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, prompts)
	})
}

func TestCheckInService_RecordCheckIn(t *testing.T) {
	t.Run("completed step celebrates and marks it done", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{Status: goal.StatusActive})
		st := env.createStep(step.Step{
			ID: "s1", GoalID: g.ID, OrderIndex: 1,
			DueDate: dates.Ptr(dates.New(2024, time.March, 5)),
		})

		result, err := env.checkIn.RecordCheckIn(env.ctx, checkin.Response{
			StepID: st.ID, Completed: true, Confidence: 5,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, result.Record.ID)
		assert.NotEmpty(t, result.Feedback.Encouragement)
		assert.False(t, result.Feedback.Adjustments.ExtendDueDate)
		assert.Zero(t, result.ExtendedByDays)

		got, err := env.steps.Get(env.ctx, st.ID)
		require.NoError(t, err)
		assert.Equal(t, step.StatusDone, got.Status)
		assert.Equal(t, dates.New(2024, time.March, 5), *got.DueDate, "due date untouched")

		env.bus.AssertPublished(t, eventbus.EventCheckInRecorded)
	})

	t.Run("low confidence breaks down without moving the date", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{Status: goal.StatusActive})
		st := env.createStep(step.Step{
			ID: "s1", GoalID: g.ID, OrderIndex: 1,
			DueDate: dates.Ptr(dates.New(2024, time.March, 5)),
		})

		result, err := env.checkIn.RecordCheckIn(env.ctx, checkin.Response{
			StepID: st.ID, Confidence: 2,
		})
		require.NoError(t, err)

		assert.True(t, result.Feedback.Adjustments.BreakDownStep)
		assert.True(t, result.Feedback.Adjustments.AddScaffolding)
		assert.Zero(t, result.ExtendedByDays)
		assert.Equal(t, dates.New(2024, time.March, 5), *env.dueOf(st.ID))
	})

	t.Run("mid confidence extends by effort policy and cascades", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{Status: goal.StatusActive})
		st := env.createStep(step.Step{
			ID: "s1", GoalID: g.ID, OrderIndex: 1,
			EstimatedEffortMin: 60, // medium effort earns 3 days
			DueDate:            dates.Ptr(dates.New(2024, time.March, 5)),
		})
		next := env.createStep(step.Step{
			ID: "s2", GoalID: g.ID, OrderIndex: 2,
			DueDate: dates.Ptr(dates.New(2024, time.March, 12)),
		})

		result, err := env.checkIn.RecordCheckIn(env.ctx, checkin.Response{
			StepID: st.ID, Confidence: 3,
		})
		require.NoError(t, err)

		assert.True(t, result.Feedback.Adjustments.ExtendDueDate)
		assert.Equal(t, 3, result.ExtendedByDays)
		assert.Equal(t, dates.New(2024, time.March, 8), *env.dueOf(st.ID))
		assert.Equal(t, dates.New(2024, time.March, 15), *env.dueOf(next.ID))
	})

	t.Run("extension on an unscheduled step is a no-op", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{Status: goal.StatusActive})
		st := env.createStep(step.Step{ID: "s1", GoalID: g.ID, OrderIndex: 1})

		result, err := env.checkIn.RecordCheckIn(env.ctx, checkin.Response{
			StepID: st.ID, Confidence: 4,
		})
		require.NoError(t, err)
		assert.True(t, result.Feedback.Adjustments.ExtendDueDate)
		assert.Zero(t, result.ExtendedByDays)
		assert.Nil(t, env.dueOf(st.ID))
	})

	t.Run("blockers lead the suggestions", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{Status: goal.StatusActive})
		st := env.createStep(step.Step{ID: "s1", GoalID: g.ID, OrderIndex: 1})

		result, err := env.checkIn.RecordCheckIn(env.ctx, checkin.Response{
			StepID: st.ID, Confidence: 2, Blockers: "waiting on feedback",
		})
		require.NoError(t, err)
		require.NotEmpty(t, result.Feedback.Suggestions)
		assert.Contains(t, result.Feedback.Suggestions[0], "waiting on feedback")
	})

	t.Run("rejects an invalid response", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.checkIn.RecordCheckIn(env.ctx, checkin.Response{
			StepID: "s1", Confidence: 0,
		})
		require.Error(t, err)

		_, err = env.checkIn.RecordCheckIn(env.ctx, checkin.Response{Confidence: 3})
		require.Error(t, err)
	})

	t.Run("unknown step", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.checkIn.RecordCheckIn(env.ctx, checkin.Response{
			StepID: "nope", Confidence: 3,
		})
		require.ErrorIs(t, err, step.ErrNotFound)
	})

	t.Run("advisor message replaces the static encouragement", func(t *testing.T) {
		env := newTestEnv(t)
		env.checkIn.advisor = stubAdvisor{advice: advisory.Advice{Message: "Keep at it, the next rep is easier."}}

		g := env.createGoal(goal.Goal{Status: goal.StatusActive})
		st := env.createStep(step.Step{ID: "s1", GoalID: g.ID, OrderIndex: 1})

		result, err := env.checkIn.RecordCheckIn(env.ctx, checkin.Response{
			StepID: st.ID, Confidence: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, "Keep at it, the next rep is easier.", result.Feedback.Encouragement)
	})

	t.Run("advisor recommended date overrides the policy extension", func(t *testing.T) {
		env := newTestEnv(t)
		env.checkIn.advisor = stubAdvisor{advice: advisory.Advice{
			RecommendedDueDate: dates.Ptr(dates.New(2024, time.March, 12)),
		}}

		g := env.createGoal(goal.Goal{Status: goal.StatusActive})
		st := env.createStep(step.Step{
			ID: "s1", GoalID: g.ID, OrderIndex: 1,
			EstimatedEffortMin: 60,
			DueDate:            dates.Ptr(dates.New(2024, time.March, 5)),
		})

		result, err := env.checkIn.RecordCheckIn(env.ctx, checkin.Response{
			StepID: st.ID, Confidence: 4,
		})
		require.NoError(t, err)
		assert.Equal(t, 7, result.ExtendedByDays)
		assert.Equal(t, dates.New(2024, time.March, 12), *env.dueOf(st.ID))
	})

	t.Run("advisor failure falls back to static feedback", func(t *testing.T) {
		env := newTestEnv(t)
		env.checkIn.advisor = stubAdvisor{err: errors.New("oracle timeout")}

		g := env.createGoal(goal.Goal{Status: goal.StatusActive})
		st := env.createStep(step.Step{
			ID: "s1", GoalID: g.ID, OrderIndex: 1,
			DueDate: dates.Ptr(dates.New(2024, time.March, 5)),
		})

		result, err := env.checkIn.RecordCheckIn(env.ctx, checkin.Response{
			StepID: st.ID, Confidence: 3,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Feedback.Encouragement)
		assert.Equal(t, 2, result.ExtendedByDays) // zero effort estimate, short policy tier
		assert.Equal(t, dates.New(2024, time.March, 7), *env.dueOf(st.ID))
	})
}
