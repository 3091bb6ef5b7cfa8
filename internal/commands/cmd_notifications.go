package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/steadyhq/stride/internal/engine"
	"github.com/steadyhq/stride/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type NotificationsCmd struct {
	flags *Flags
	app   *engine.App

	jsonOutput bool
	clear      bool
}

// NewNotificationsCmd creates a new notifications command
func NewNotificationsCmd(flags *Flags, app *engine.App) *NotificationsCmd {
	return &NotificationsCmd{flags: flags, app: app}
}

// Register adds the notifications command to the application
func (cmd *NotificationsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "notifications",
		Usage:     "Show or clear the notification history",
		UsageText: "stride notifications [--json] [--clear]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "delete all notifications",
				Destination: &cmd.clear,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NotificationsCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.clear {
		if err := cmd.app.Notifier.Clear(); err != nil {
			return fmt.Errorf("clear notifications: %w", err)
		}
		fmt.Fprintln(c.Root().Writer, "Notifications cleared")
		return nil
	}

	history, err := cmd.app.Notifier.History()
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.Write(history)
	}

	if len(history) == 0 {
		fmt.Fprintln(os.Stderr, "No notifications")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tLEVEL\tMESSAGE")
	for _, n := range history {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			n.CreatedAt.Format("2006-01-02 15:04"), n.Level, n.Message)
	}
	return w.Flush()
}
