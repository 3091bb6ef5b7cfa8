// Package engine wires the domain services together: scheduling, deadline
// cascades, check-ins, and milestone scanning, all serialized per goal and
// reporting through the event bus.
package engine

import (
	"github.com/rs/zerolog"
	"github.com/steadyhq/stride/internal/core/advisory"
	"github.com/steadyhq/stride/internal/core/checkin"
	"github.com/steadyhq/stride/internal/core/config"
	"github.com/steadyhq/stride/internal/core/eventbus"
	"github.com/steadyhq/stride/internal/core/goal"
	"github.com/steadyhq/stride/internal/core/notify"
	"github.com/steadyhq/stride/internal/core/step"
	"github.com/steadyhq/stride/internal/data/db"
	"github.com/steadyhq/stride/internal/data/stores"
)

// App bundles the stores and services a command needs.
type App struct {
	Config   config.Config
	DB       *db.DB
	Bus      *eventbus.EventBus
	Notifier *notify.Bus

	Goals    goal.Store
	Steps    step.Store
	CheckIns checkin.Store

	Schedule *ScheduleService
	CheckIn  *CheckInService
	Scanner  *ScanService
}

// NewApp builds the full service graph on top of an open database.
// advisor may be nil when the advice oracle is disabled.
func NewApp(
	cfg config.Config,
	database *db.DB,
	bus *eventbus.EventBus,
	advisor advisory.Advisor,
	logger zerolog.Logger,
) *App {
	goals := stores.NewGoalStore(database)
	steps := stores.NewStepStore(database)
	checkins := stores.NewCheckInStore(database)

	notifier := notify.NewBus(stores.NewNotifyStore(database))
	eventbus.NewNotificationRouter(bus, notifier).Register()

	schedule := NewScheduleService(goals, steps, bus, cfg.Extension, logger)

	return &App{
		Config:   cfg,
		DB:       database,
		Bus:      bus,
		Notifier: notifier,
		Goals:    goals,
		Steps:    steps,
		CheckIns: checkins,
		Schedule: schedule,
		CheckIn:  NewCheckInService(goals, steps, checkins, schedule, advisor, bus, cfg.Scheduling, logger),
		Scanner: NewScanService(
			goals, steps, bus,
			cfg.Scheduling.ScanWindowDays,
			cfg.Scheduling.MilestoneGroupSize,
			logger,
		),
	}
}
