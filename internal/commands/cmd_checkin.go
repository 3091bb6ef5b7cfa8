package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/steadyhq/stride/internal/core/checkin"
	"github.com/steadyhq/stride/internal/engine"
	"github.com/steadyhq/stride/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type CheckInCmd struct {
	flags *Flags
	app   *engine.App

	// pending flags
	jsonOutput bool

	// record reads a checkin.Response from --file or stdin
	reader iojson.FileReader[checkin.Response]
}

// NewCheckInCmd creates a new checkin command
func NewCheckInCmd(flags *Flags, app *engine.App) *CheckInCmd {
	return &CheckInCmd{flags: flags, app: app}
}

// Register adds the checkin command to the application
func (cmd *CheckInCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "checkin",
		Usage: "Find steps due for a check-in and record responses",
		Commands: []*cli.Command{
			{
				Name:      "pending",
				Usage:     "List steps waiting on a check-in, most overdue first",
				UsageText: "stride checkin pending [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runPending,
			},
			{
				Name:      "record",
				Usage:     "Record a check-in response and apply feedback",
				UsageText: "stride checkin record [-f response.json]",
				Description: `Reads a JSON check-in response from --file or stdin:

  {"step_id": "...", "completed": false, "confidence": 3,
   "blockers": "", "needs_help": false, "minutes_spent": 25}

Confidence is a 1-5 self-assessment. Depending on the outcome the step may be
marked done, broken down, or have its due date extended (cascading to
downstream steps).`,
				Flags: []cli.Flag{
					cmd.reader.Flag(),
				},
				Action: cmd.runRecord,
			},
		},
	})

	return app
}

func (cmd *CheckInCmd) runPending(ctx context.Context, c *cli.Command) error {
	prompts, err := cmd.app.CheckIn.PendingCheckIns(ctx, cmd.flags.UserID)
	if err != nil {
		return fmt.Errorf("pending check-ins: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.Write(prompts)
	}

	if len(prompts) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing waiting on a check-in")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STEP\tGOAL\tPAST DUE\tURGENT")
	for _, p := range prompts {
		urgent := ""
		if p.IsUrgent {
			urgent = "!"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%dd\t%s\n", p.Step.Title, p.Goal.Title, p.DaysPastDue, urgent)
	}
	return w.Flush()
}

func (cmd *CheckInCmd) runRecord(ctx context.Context, c *cli.Command) error {
	resp, err := cmd.reader.Read()
	if err != nil {
		return err
	}

	result, err := cmd.app.CheckIn.RecordCheckIn(ctx, resp)
	if err != nil {
		return fmt.Errorf("record check-in: %w", err)
	}

	return iojson.Write(result)
}
