package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/steadyhq/stride/internal/commands"
	"github.com/steadyhq/stride/internal/core/advisory"
	"github.com/steadyhq/stride/internal/core/config"
	"github.com/steadyhq/stride/internal/core/eventbus"
	"github.com/steadyhq/stride/internal/core/logging"
	"github.com/steadyhq/stride/internal/data/db"
	"github.com/steadyhq/stride/internal/engine"
	"github.com/steadyhq/stride/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		strideApp = &engine.App{}
		database  *db.DB
		busCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "stride",
		Usage:     "Schedule goals step by step and keep them on track",
		UsageText: "stride [global options] command [command options]",
		Description: `Stride breaks goals into ordered, dependent steps and keeps their due dates
honest: it auto-schedules from the goal's cadence, cascades deadline
extensions downstream, groups steps into milestones, and prompts for
check-ins with adaptive feedback.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("STRIDE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/stride.log)",
				Sources:     cli.EnvVars("STRIDE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("STRIDE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("STRIDE_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "user",
				Usage:       "user the goals belong to",
				Sources:     cli.EnvVars("STRIDE_USER"),
				Value:       "local",
				Destination: &flags.UserID,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/stride.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "stride.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			cfg.DataDir = flags.DataDir

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			database, err = db.Open(cfg.DataDir, db.DefaultOpenOptions())
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			// The advice oracle is strictly optional; absence is not an error.
			var advisor advisory.Advisor
			if client, err := advisory.NewClient(cfg.Advisory); err == nil {
				advisor = client
			} else if !errors.Is(err, advisory.ErrUnavailable) {
				log.Warn().Err(err).Msg("advice oracle disabled")
			}

			bus := eventbus.New(64)
			eventbus.RegisterDebugLogger(bus, log.Logger)
			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go bus.Start(busCtx)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*strideApp = *engine.NewApp(cfg, database, bus, advisor, log.Logger)

			return logging.WithUserID(ctx, flags.UserID), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Stop the event dispatch goroutine
			if busCancel != nil {
				busCancel()
			}

			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewGoalCmd(flags, strideApp).Register(app)
	app = commands.NewStepCmd(flags, strideApp).Register(app)
	app = commands.NewScheduleCmd(flags, strideApp).Register(app)
	app = commands.NewCheckInCmd(flags, strideApp).Register(app)
	app = commands.NewScanCmd(flags, strideApp).Register(app)
	app = commands.NewNotificationsCmd(flags, strideApp).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
