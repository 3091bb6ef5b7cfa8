package commands

import (
	"context"
	"fmt"

	"github.com/steadyhq/stride/internal/core/plan"
	"github.com/steadyhq/stride/internal/engine"
	"github.com/steadyhq/stride/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type ScheduleCmd struct {
	flags *Flags
	app   *engine.App

	// extend flags
	days int

	// adjust flags
	interval int

	// milestones flags
	groupSize int
}

// NewScheduleCmd creates the schedule, extend, adjust, and milestones commands
func NewScheduleCmd(flags *Flags, app *engine.App) *ScheduleCmd {
	return &ScheduleCmd{flags: flags, app: app}
}

// Register adds the scheduling commands to the application
func (cmd *ScheduleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "schedule",
			Usage:     "Assign due dates to every step of a goal",
			UsageText: "stride schedule <goal-id>",
			Description: `Orders the goal's steps by their dependencies and spaces due dates by the
cadence found in the goal's description ("daily", "weekly", "every N days").
Unrecognized cadences default to weekly.`,
			Action: cmd.runSchedule,
		},
		&cli.Command{
			Name:      "extend",
			Usage:     "Push a step's due date out and cascade to downstream steps",
			UsageText: "stride extend <step-id> [--days N]",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:        "days",
					Usage:       "days to extend by (defaults to the effort-based policy)",
					Destination: &cmd.days,
				},
			},
			Action: cmd.runExtend,
		},
		&cli.Command{
			Name:      "adjust",
			Usage:     "Respace the steps after an anchor with a new interval",
			UsageText: "stride adjust <step-id> --interval N",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:        "interval",
					Usage:       "new interval in days",
					Required:    true,
					Destination: &cmd.interval,
				},
			},
			Action: cmd.runAdjust,
		},
		&cli.Command{
			Name:      "milestones",
			Usage:     "Group a goal's steps into milestones",
			UsageText: "stride milestones <goal-id> [--size N]",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:        "size",
					Usage:       "steps per milestone",
					Value:       plan.DefaultGroupSize,
					Destination: &cmd.groupSize,
				},
			},
			Action: cmd.runMilestones,
		},
	)

	return app
}

func (cmd *ScheduleCmd) runSchedule(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: stride schedule <goal-id>")
	}

	n, err := cmd.app.Schedule.AutoSchedule(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("schedule goal: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Scheduled %d step(s)\n", n)
	return nil
}

func (cmd *ScheduleCmd) runExtend(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: stride extend <step-id> [--days N]")
	}
	id := c.Args().First()

	days := cmd.days
	if days == 0 {
		st, err := cmd.app.Steps.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get step: %w", err)
		}
		days = cmd.app.Schedule.DefaultExtensionDays(st)
	}

	shifted, err := cmd.app.Schedule.ExtendDeadline(ctx, id, days)
	if err != nil {
		return fmt.Errorf("extend deadline: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Extended by %d day(s), %d downstream step(s) shifted\n", days, shifted)
	return nil
}

func (cmd *ScheduleCmd) runAdjust(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: stride adjust <step-id> --interval N")
	}

	affected, err := cmd.app.Schedule.AdjustFromStep(ctx, c.Args().First(), cmd.interval)
	if err != nil {
		return fmt.Errorf("adjust cadence: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Respaced %d step(s) at %d-day intervals\n", affected, cmd.interval)
	return nil
}

func (cmd *ScheduleCmd) runMilestones(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: stride milestones <goal-id> [--size N]")
	}

	steps, err := cmd.app.Steps.ListByGoal(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("list steps: %w", err)
	}

	return iojson.Write(plan.GroupMilestones(steps, cmd.groupSize))
}
