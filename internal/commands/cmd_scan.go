package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/steadyhq/stride/internal/engine"
	"github.com/steadyhq/stride/internal/engine/sweep"
	"github.com/steadyhq/stride/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type ScanCmd struct {
	flags *Flags
	app   *engine.App

	watch    bool
	interval time.Duration
}

// NewScanCmd creates a new scan command
func NewScanCmd(flags *Flags, app *engine.App) *ScanCmd {
	return &ScanCmd{flags: flags, app: app}
}

// Register adds the scan command to the application
func (cmd *ScanCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "scan",
		Usage:     "Find milestones approaching their due dates",
		UsageText: "stride scan [--watch] [--interval 1h]",
		Description: `Groups each active goal's steps into milestones and reports those due
exactly the configured number of days from today.

With --watch the scan repeats on an interval until interrupted.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "watch",
				Usage:       "keep scanning on an interval",
				Destination: &cmd.watch,
			},
			&cli.DurationFlag{
				Name:        "interval",
				Usage:       "scan interval in watch mode",
				Value:       time.Hour,
				Destination: &cmd.interval,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ScanCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.watch {
		watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		sweeper := sweep.New(cmd.app.Scanner, cmd.flags.UserID, cmd.interval, log.Logger)
		sweeper.Run(watchCtx)
		return nil
	}

	upcoming, err := cmd.app.Scanner.ScanUpcoming(ctx, cmd.flags.UserID)
	if err != nil {
		return fmt.Errorf("scan milestones: %w", err)
	}

	if len(upcoming) == 0 {
		fmt.Fprintln(os.Stderr, "No milestones in the window")
		return nil
	}

	return iojson.Write(upcoming)
}
