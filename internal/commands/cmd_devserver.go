package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/aula/internal/devserver"
	"github.com/colonyops/aula/internal/printer"
)

type DevserverCmd struct {
	flags   *Flags
	addr    string
	chapter string
	pprof   bool
}

func NewDevserverCmd(flags *Flags) *DevserverCmd {
	return &DevserverCmd{flags: flags}
}

func (cmd *DevserverCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "devserver",
		Usage:     "Serve a local copy of the site with fixture data",
		UsageText: "aula devserver [--addr host:port] [--chapter file] [--pprof]",
		Description: `Starts an in-memory stand-in for the learning site: the home page, the
book landing page and its form, the programs list and lesson comments.
Point the TUI at it with --base-url.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "address to listen on",
				Value:       "127.0.0.1:8000",
				Destination: &cmd.addr,
			},
			&cli.StringFlag{
				Name:        "chapter",
				Usage:       "file served by the chapter download",
				Destination: &cmd.chapter,
			},
			&cli.BoolFlag{
				Name:        "pprof",
				Usage:       "expose net/http/pprof under /debug/pprof",
				Destination: &cmd.pprof,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DevserverCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := devserver.Config{Addr: cmd.addr, Profiler: cmd.pprof}

	if cmd.chapter != "" {
		b, err := os.ReadFile(cmd.chapter)
		if err != nil {
			return fmt.Errorf("read chapter: %w", err)
		}
		cfg.Chapter = b
	} else {
		cfg.Chapter = []byte("%PDF-1.4\n% capítulo de muestra\n")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer.Ctx(ctx).Infof("Serving on http://%s", cmd.addr)
	return devserver.New(cfg).ListenAndServe(ctx)
}
