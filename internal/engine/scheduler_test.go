package engine

import (
	"testing"
	"time"

	"github.com/steadyhq/stride/internal/core/eventbus"
	"github.com/steadyhq/stride/internal/core/goal"
	"github.com/steadyhq/stride/internal/core/plan"
	"github.com/steadyhq/stride/internal/core/step"
	"github.com/steadyhq/stride/pkg/dates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleService_AutoSchedule(t *testing.T) {
	t.Run("assigns weekly due dates in dependency order", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{
			Description: "Learn Spanish, practice every week",
			StartDate:   dates.Ptr(dates.New(2024, time.January, 1)),
		})

		// s2 depends on s3, so the visiting order is s1, s3, s2 even
		// though s2 has the lower order index.
		s1 := env.createStep(step.Step{ID: "s1", GoalID: g.ID, OrderIndex: 1})
		s2 := env.createStep(step.Step{ID: "s2", GoalID: g.ID, OrderIndex: 2, DependencyIDs: []string{"s3"}})
		s3 := env.createStep(step.Step{ID: "s3", GoalID: g.ID, OrderIndex: 3})

		n, err := env.schedule.AutoSchedule(env.ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		assert.Equal(t, dates.New(2024, time.January, 1), *env.dueOf(s1.ID))
		assert.Equal(t, dates.New(2024, time.January, 8), *env.dueOf(s3.ID))
		assert.Equal(t, dates.New(2024, time.January, 15), *env.dueOf(s2.ID))
	})

	t.Run("daily cadence spaces steps one day apart", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{
			Description: "Stretch daily",
			StartDate:   dates.Ptr(dates.New(2024, time.June, 10)),
		})
		s1 := env.createStep(step.Step{ID: "s1", GoalID: g.ID, OrderIndex: 1})
		s2 := env.createStep(step.Step{ID: "s2", GoalID: g.ID, OrderIndex: 2})

		_, err := env.schedule.AutoSchedule(env.ctx, g.ID)
		require.NoError(t, err)

		assert.Equal(t, dates.New(2024, time.June, 10), *env.dueOf(s1.ID))
		assert.Equal(t, dates.New(2024, time.June, 11), *env.dueOf(s2.ID))
	})

	t.Run("custom interval from description", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{
			Description: "Water the plants every 3 days",
			StartDate:   dates.Ptr(dates.New(2024, time.June, 1)),
		})
		s1 := env.createStep(step.Step{ID: "s1", GoalID: g.ID, OrderIndex: 1})
		s2 := env.createStep(step.Step{ID: "s2", GoalID: g.ID, OrderIndex: 2})
		s3 := env.createStep(step.Step{ID: "s3", GoalID: g.ID, OrderIndex: 3})

		_, err := env.schedule.AutoSchedule(env.ctx, g.ID)
		require.NoError(t, err)

		assert.Equal(t, dates.New(2024, time.June, 1), *env.dueOf(s1.ID))
		assert.Equal(t, dates.New(2024, time.June, 4), *env.dueOf(s2.ID))
		assert.Equal(t, dates.New(2024, time.June, 7), *env.dueOf(s3.ID))
	})

	t.Run("goal without start date anchors on today", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{Description: "weekly reading"})
		s1 := env.createStep(step.Step{ID: "s1", GoalID: g.ID, OrderIndex: 1})

		_, err := env.schedule.AutoSchedule(env.ctx, g.ID)
		require.NoError(t, err)

		assert.Equal(t, dates.Only(testNow), *env.dueOf(s1.ID))
	})

	t.Run("goal with no steps is a no-op", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{})

		n, err := env.schedule.AutoSchedule(env.ctx, g.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
		env.bus.AssertNotPublished(t, eventbus.EventGoalScheduled)
	})

	t.Run("unknown goal", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.schedule.AutoSchedule(env.ctx, "nope")
		require.ErrorIs(t, err, goal.ErrNotFound)
	})

	t.Run("cycle falls back to order index", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{
			Description: "daily",
			StartDate:   dates.Ptr(dates.New(2024, time.June, 1)),
		})
		s1 := env.createStep(step.Step{ID: "s1", GoalID: g.ID, OrderIndex: 1, DependencyIDs: []string{"s2"}})
		s2 := env.createStep(step.Step{ID: "s2", GoalID: g.ID, OrderIndex: 2, DependencyIDs: []string{"s1"}})
		s3 := env.createStep(step.Step{ID: "s3", GoalID: g.ID, OrderIndex: 3})

		n, err := env.schedule.AutoSchedule(env.ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		assert.Equal(t, dates.New(2024, time.June, 1), *env.dueOf(s1.ID))
		assert.Equal(t, dates.New(2024, time.June, 2), *env.dueOf(s2.ID))
		assert.Equal(t, dates.New(2024, time.June, 3), *env.dueOf(s3.ID))
	})

	t.Run("publishes goal.scheduled with the cadence", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{Description: "every 2 days"})
		env.createStep(step.Step{ID: "s1", GoalID: g.ID, OrderIndex: 1})

		_, err := env.schedule.AutoSchedule(env.ctx, g.ID)
		require.NoError(t, err)

		env.bus.AssertPublished(t, eventbus.EventGoalScheduled)
		for _, rec := range env.bus.Events() {
			if rec.Event != eventbus.EventGoalScheduled {
				continue
			}
			p, ok := rec.Payload.(eventbus.GoalScheduledPayload)
			require.True(t, ok)
			assert.Equal(t, g.ID, p.Goal.ID)
			assert.Equal(t, 1, p.Scheduled)
			assert.Equal(t, plan.FrequencyCustom, p.Cadence.Frequency)
			assert.Equal(t, 2, p.Cadence.IntervalDays)
		}
	})

	t.Run("rescheduling overwrites previous due dates", func(t *testing.T) {
		env := newTestEnv(t)
		g := env.createGoal(goal.Goal{
			Description: "weekly",
			StartDate:   dates.Ptr(dates.New(2024, time.June, 1)),
		})
		s1 := env.createStep(step.Step{
			ID: "s1", GoalID: g.ID, OrderIndex: 1,
			DueDate: dates.Ptr(dates.New(2023, time.December, 25)),
		})

		_, err := env.schedule.AutoSchedule(env.ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, dates.New(2024, time.June, 1), *env.dueOf(s1.ID))
	})
}
