package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ctt/internal/commands"
	"github.com/colonyops/ctt/internal/core/config"
	"github.com/colonyops/ctt/internal/core/logging"
	"github.com/colonyops/ctt/internal/core/styles"
	"github.com/colonyops/ctt/internal/printer"
	"github.com/colonyops/ctt/internal/tracker"
	"github.com/colonyops/ctt/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls back
	// to runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

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

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "ctt",
		Usage:     "Track time on markdown checkbox tasks",
		UsageText: "ctt [global options] command [command options]",
		Description: `ctt moves checkbox tasks in plain-text documents through
todo → doing → done (or cancelled) and records start and end times in the
task line itself:

  - [ ] Write report
  - [/] 10:00 Write report
  - [x] 10:00-12:00 Write report

Time and date formats, the separator and the status symbols are configurable.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CTT_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("CTT_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("CTT_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Read(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			palette, ok := styles.GetPalette(cfg.Theme)
			if !ok {
				palette, _ = styles.GetPalette(styles.DefaultTheme)
			}
			ctx = printer.NewContext(ctx, printer.New(os.Stderr, palette))

			if err := cfg.Validate(); err != nil {
				// config validate and doctor report problems themselves
				if cmd := c.Args().First(); cmd == "config" || cmd == "doctor" {
					return ctx, nil
				}
				return ctx, fmt.Errorf("invalid config %s: %w", flags.ConfigPath, err)
			}

			ops, err := tracker.New(*cfg, tracker.WithLogger(logging.Component("tracker")))
			if err != nil {
				return ctx, fmt.Errorf("setup tracker: %w", err)
			}
			flags.Tracker = ops

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewToggleCmd(flags).Register(app)
	app = commands.NewBeginCmd(flags).Register(app)
	app = commands.NewEndCmd(flags).Register(app)
	app = commands.NewCancelCmd(flags).Register(app)
	app = commands.NewRestartCmd(flags).Register(app)
	app = commands.NewDuplicateCmd(flags).Register(app)
	app = commands.NewEndDupCmd(flags).Register(app)
	app = commands.NewParseCmd(flags).Register(app)
	app = commands.NewFormatCmd(flags).Register(app)
	app = commands.NewLsCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
