package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/steadyhq/stride/internal/core/goal"
	"github.com/steadyhq/stride/internal/engine"
	"github.com/steadyhq/stride/pkg/dates"
	"github.com/steadyhq/stride/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type GoalCmd struct {
	flags *Flags
	app   *engine.App

	// create flags
	title       string
	description string
	tags        []string
	startDate   string
	dueDate     string

	// list flags
	status     string
	jsonOutput bool
}

// NewGoalCmd creates a new goal command
func NewGoalCmd(flags *Flags, app *engine.App) *GoalCmd {
	return &GoalCmd{flags: flags, app: app}
}

// Register adds the goal command to the application
func (cmd *GoalCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "goal",
		Usage: "Create and inspect goals",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a new goal",
				UsageText: "stride goal create --title <title> [options]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "title",
						Usage:       "goal title",
						Required:    true,
						Destination: &cmd.title,
					},
					&cli.StringFlag{
						Name:        "description",
						Aliases:     []string{"d"},
						Usage:       "free-text description; cadence phrases like \"daily\" or \"every 3 days\" drive scheduling",
						Destination: &cmd.description,
					},
					&cli.StringSliceFlag{
						Name:        "tag",
						Usage:       "tag (repeatable)",
						Destination: &cmd.tags,
					},
					&cli.StringFlag{
						Name:        "start",
						Usage:       "start date (YYYY-MM-DD)",
						Destination: &cmd.startDate,
					},
					&cli.StringFlag{
						Name:        "due",
						Usage:       "due date (YYYY-MM-DD)",
						Destination: &cmd.dueDate,
					},
				},
				Action: cmd.runCreate,
			},
			{
				Name:      "list",
				Usage:     "List goals",
				UsageText: "stride goal list [--status <status>] [--json]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "status",
						Usage:       "filter by status (planned, active, paused, completed, archived)",
						Destination: &cmd.status,
					},
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "status",
				Usage:     "Change a goal's status",
				UsageText: "stride goal status <goal-id> <status>",
				Action:    cmd.runStatus,
			},
		},
	})

	return app
}

func (cmd *GoalCmd) runCreate(ctx context.Context, c *cli.Command) error {
	g := goal.Goal{
		UserID:      cmd.flags.UserID,
		Title:       cmd.title,
		Description: cmd.description,
		Tags:        cmd.tags,
	}

	var err error
	if g.StartDate, err = parseDateFlag(cmd.startDate); err != nil {
		return err
	}
	if g.DueDate, err = parseDateFlag(cmd.dueDate); err != nil {
		return err
	}

	if err := cmd.app.Goals.Create(ctx, &g); err != nil {
		return fmt.Errorf("create goal: %w", err)
	}

	return iojson.Write(g)
}

func (cmd *GoalCmd) runList(ctx context.Context, c *cli.Command) error {
	filter := goal.ListFilter{UserID: cmd.flags.UserID}
	if cmd.status != "" {
		status := goal.Status(cmd.status)
		if !status.Valid() {
			return fmt.Errorf("unknown status %q", cmd.status)
		}
		filter.Status = status
	}

	goals, err := cmd.app.Goals.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.Write(goals)
	}

	if len(goals) == 0 {
		fmt.Fprintln(os.Stderr, "No goals found")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tSTART\tDUE")
	for _, g := range goals {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			g.ID, g.Title, g.Status, formatDate(g.StartDate), formatDate(g.DueDate))
	}
	return w.Flush()
}

func (cmd *GoalCmd) runStatus(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("usage: stride goal status <goal-id> <status>")
	}
	id := c.Args().Get(0)
	status := goal.Status(c.Args().Get(1))
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", c.Args().Get(1))
	}

	if err := cmd.app.Goals.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update goal status: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Goal %s is now %s\n", id, status)
	return nil
}

func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := dates.Parse(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return dates.Format(*t)
}
