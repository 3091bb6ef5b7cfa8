package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/steadyhq/stride/internal/core/step"
	"github.com/steadyhq/stride/internal/engine"
	"github.com/steadyhq/stride/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type StepCmd struct {
	flags *Flags
	app   *engine.App

	// add flags
	goalID    string
	title     string
	order     int
	deps      []string
	effortMin int
	required  bool
	due       string

	// list flags
	jsonOutput bool
}

// NewStepCmd creates a new step command
func NewStepCmd(flags *Flags, app *engine.App) *StepCmd {
	return &StepCmd{flags: flags, app: app}
}

// Register adds the step command to the application
func (cmd *StepCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "step",
		Usage: "Manage the steps of a goal",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a step to a goal",
				UsageText: "stride step add --goal <goal-id> --title <title> --order <n> [options]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "goal",
						Usage:       "goal ID",
						Required:    true,
						Destination: &cmd.goalID,
					},
					&cli.StringFlag{
						Name:        "title",
						Usage:       "step title",
						Required:    true,
						Destination: &cmd.title,
					},
					&cli.IntFlag{
						Name:        "order",
						Usage:       "order index within the goal",
						Required:    true,
						Destination: &cmd.order,
					},
					&cli.StringSliceFlag{
						Name:        "dep",
						Usage:       "ID of a step that must finish first (repeatable)",
						Destination: &cmd.deps,
					},
					&cli.IntFlag{
						Name:        "effort",
						Usage:       "estimated effort in minutes",
						Destination: &cmd.effortMin,
					},
					&cli.BoolFlag{
						Name:        "required",
						Usage:       "mark the step as required",
						Destination: &cmd.required,
					},
					&cli.StringFlag{
						Name:        "due",
						Usage:       "due date (YYYY-MM-DD)",
						Destination: &cmd.due,
					},
				},
				Action: cmd.runAdd,
			},
			{
				Name:      "list",
				Usage:     "List the steps of a goal",
				UsageText: "stride step list <goal-id> [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "done",
				Usage:     "Mark a step as done",
				UsageText: "stride step done <step-id>",
				Action:    cmd.runDone,
			},
		},
	})

	return app
}

func (cmd *StepCmd) runAdd(ctx context.Context, c *cli.Command) error {
	// The goal must exist; surface a clear error instead of an FK failure.
	if _, err := cmd.app.Goals.Get(ctx, cmd.goalID); err != nil {
		return fmt.Errorf("get goal: %w", err)
	}

	st := step.Step{
		GoalID:             cmd.goalID,
		Title:              cmd.title,
		OrderIndex:         cmd.order,
		DependencyIDs:      cmd.deps,
		EstimatedEffortMin: cmd.effortMin,
		IsRequired:         cmd.required,
	}

	var err error
	if st.DueDate, err = parseDateFlag(cmd.due); err != nil {
		return err
	}

	if err := cmd.app.Steps.Create(ctx, &st); err != nil {
		return fmt.Errorf("create step: %w", err)
	}

	return iojson.Write(st)
}

func (cmd *StepCmd) runList(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: stride step list <goal-id>")
	}

	steps, err := cmd.app.Steps.ListByGoal(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("list steps: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.Write(steps)
	}

	if len(steps) == 0 {
		fmt.Fprintln(os.Stderr, "No steps found")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tORDER\tTITLE\tSTATUS\tDUE\tDEPS")
	for _, st := range steps {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			st.ID, st.OrderIndex, st.Title, st.Status,
			formatDate(st.DueDate), strings.Join(st.DependencyIDs, ","))
	}
	return w.Flush()
}

func (cmd *StepCmd) runDone(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: stride step done <step-id>")
	}
	id := c.Args().First()

	if err := cmd.app.Steps.UpdateStatus(ctx, id, step.StatusDone); err != nil {
		return fmt.Errorf("update step status: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Step %s is done\n", id)
	return nil
}
