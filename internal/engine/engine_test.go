package engine

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/steadyhq/stride/internal/core/checkin"
	"github.com/steadyhq/stride/internal/core/config"
	"github.com/steadyhq/stride/internal/core/eventbus/testbus"
	"github.com/steadyhq/stride/internal/core/goal"
	"github.com/steadyhq/stride/internal/core/step"
	"github.com/steadyhq/stride/internal/data/db"
	"github.com/steadyhq/stride/internal/data/stores"
	"github.com/stretchr/testify/require"
)

// testNow is the frozen clock for all engine tests: 2024-03-01.
var testNow = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	t        *testing.T
	ctx      context.Context
	bus      *testbus.Bus
	goals    goal.Store
	steps    step.Store
	checkins checkin.Store
	schedule *ScheduleService
	checkIn  *CheckInService
	scanner  *ScanService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	bus := testbus.New(t)
	goals := stores.NewGoalStore(database)
	steps := stores.NewStepStore(database)
	checkins := stores.NewCheckInStore(database)

	cfg := config.DefaultConfig()
	logger := zerolog.Nop()
	frozen := func() time.Time { return testNow }

	schedule := NewScheduleService(goals, steps, bus.EventBus, cfg.Extension, logger)
	schedule.now = frozen

	checkIn := NewCheckInService(goals, steps, checkins, schedule, nil, bus.EventBus, cfg.Scheduling, logger)
	checkIn.now = frozen

	scanner := NewScanService(goals, steps, bus.EventBus,
		cfg.Scheduling.ScanWindowDays, cfg.Scheduling.MilestoneGroupSize, logger)
	scanner.now = frozen

	return &testEnv{
		t:        t,
		ctx:      context.Background(),
		bus:      bus,
		goals:    goals,
		steps:    steps,
		checkins: checkins,
		schedule: schedule,
		checkIn:  checkIn,
		scanner:  scanner,
	}
}

func (e *testEnv) createGoal(g goal.Goal) goal.Goal {
	e.t.Helper()
	if g.UserID == "" {
		g.UserID = "user-1"
	}
	if g.Title == "" {
		g.Title = "Test goal"
	}
	require.NoError(e.t, e.goals.Create(e.ctx, &g))
	return g
}

func (e *testEnv) createStep(s step.Step) step.Step {
	e.t.Helper()
	if s.Title == "" {
		s.Title = "Test step"
	}
	require.NoError(e.t, e.steps.Create(e.ctx, &s))
	return s
}

// dueOf re-reads a step and returns its current due date.
func (e *testEnv) dueOf(stepID string) *time.Time {
	e.t.Helper()
	st, err := e.steps.Get(e.ctx, stepID)
	require.NoError(e.t, err)
	return st.DueDate
}
