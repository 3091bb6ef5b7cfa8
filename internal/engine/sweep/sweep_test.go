package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/steadyhq/stride/internal/core/eventbus"
	"github.com/steadyhq/stride/internal/core/eventbus/testbus"
	"github.com/steadyhq/stride/internal/core/goal"
	"github.com/steadyhq/stride/internal/core/step"
	"github.com/steadyhq/stride/internal/data/db"
	"github.com/steadyhq/stride/internal/data/stores"
	"github.com/steadyhq/stride/internal/engine"
	"github.com/steadyhq/stride/pkg/dates"
	"github.com/stretchr/testify/require"
)

func TestSweeper_Run(t *testing.T) {
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	bus := testbus.New(t)
	goals := stores.NewGoalStore(database)
	steps := stores.NewStepStore(database)

	g := goal.Goal{UserID: "user-1", Title: "Run a 10k", Status: goal.StatusActive}
	require.NoError(t, goals.Create(context.Background(), &g))

	due := dates.AddDays(time.Now(), 3)
	require.NoError(t, steps.Create(context.Background(), &step.Step{
		GoalID: g.ID, Title: "Long run", OrderIndex: 1, DueDate: &due,
	}))

	scanner := engine.NewScanService(goals, steps, bus.EventBus, 3, 3, zerolog.Nop())
	sweeper := New(scanner, "user-1", time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	// The initial scan fires before the first tick.
	bus.AssertPublished(t, eventbus.EventMilestoneUpcoming)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}
}
