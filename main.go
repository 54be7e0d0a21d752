package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/aula/internal/commands"
	"github.com/colonyops/aula/internal/core/logging"
	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/internal/printer"
	"github.com/colonyops/aula/internal/tui"
	"github.com/colonyops/aula/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, buildInfo() reads
	// runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func buildInfo() tui.BuildInfo {
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

	if len(c) > 7 {
		c = c[:7]
	}
	return tui.BuildInfo{Version: v, Commit: c, Date: d}
}

func main() {
	ctx := context.Background()

	// A .env next to the binary is optional.
	_ = godotenv.Load()

	var (
		logCloser func()
		aulaApp   = &commands.App{}
		build     = buildInfo()
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "aula",
		Usage:     "Browse the Spanish Django course from the terminal",
		UsageText: "aula [global options] command [command options]",
		Description: `Aula is a terminal client for the course site: the home page, the book
landing page with its free chapter, the programs list and the lesson
discussions. Notifications the site raises are shown as toasts and kept in
a local history.

Run 'aula' with no arguments to open the interactive client.
Run 'aula devserver' to serve a local copy of the site to try it against.`,
		Version: fmt.Sprintf("%s (%s) %s", build.Version, build.Commit, build.Date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("AULA_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/aula.log)",
				Sources:     cli.EnvVars("AULA_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("AULA_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("AULA_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "base-url",
				Usage:       "site to talk to, overriding site.base_url",
				Sources:     cli.EnvVars("AULA_BASE_URL"),
				Destination: &flags.BaseURL,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/aula.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "aula.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile, logging.ContextHook{})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			opened, err := commands.Open(ctx, flags, build)
			if err != nil {
				return ctx, err
			}

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(opened.Config.Theme)
			styles.SetTheme(palette)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*aulaApp = *opened

			return printer.NewContext(ctx, printer.New(os.Stderr)), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if err := aulaApp.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close database")
				return err
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, aulaApp)

	app = commands.NewDownloadCmd(flags, aulaApp).Register(app)
	app = commands.NewHistoryCmd(flags, aulaApp).Register(app)
	app = commands.NewDoctorCmd(flags, aulaApp).Register(app)
	app = commands.NewConfigValidateCmd(flags, aulaApp).Register(app)
	app = commands.NewDevserverCmd(flags).Register(app)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'aula --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
