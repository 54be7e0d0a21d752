package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/aula/internal/core/doctor"
	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	app     *App
	format  string
	autofix bool
}

func NewDoctorCmd(flags *Flags, app *App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your aula setup",
		UsageText:   "aula doctor [options]",
		Description: "Checks the configuration, that every menu page of the site answers, the size of the notification history and the downloads directory.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "autofix",
				Usage:       "automatically fix issues (e.g., prune history, create the downloads directory)",
				Destination: &cmd.autofix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) checks() ([]doctor.Check, error) {
	cfg := cmd.app.Config

	client, err := cmd.app.SiteClient()
	if err != nil {
		return nil, err
	}

	return []doctor.Check{
		doctor.NewConfigCheck(cfg, cmd.flags.ConfigPath),
		doctor.NewSiteCheck(client, cfg),
		doctor.NewHistoryCheck(cmd.app.History, cfg.History.Keep),
		doctor.NewDownloadsCheck(cfg.DownloadsDir()),
	}, nil
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	checks, err := cmd.checks()
	if err != nil {
		return err
	}

	results := doctor.RunAll(ctx, checks, cmd.autofix)

	if cmd.format == "json" {
		return cmd.outputJSON(c, results)
	}

	return cmd.outputText(results)
}

func (cmd *DoctorCmd) outputJSON(c *cli.Command, results []doctor.Result) error {
	passed, warned, failed := doctor.Summary(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary summaryJSON     `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: failed == 0,
		Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
		Checks:  results,
	}

	if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
		return err
	}
	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusPass:
		return styles.TextSuccessStyle.Render("✔")
	case doctor.StatusWarn:
		return styles.TextWarningStyle.Render("●")
	default:
		return styles.TextErrorStyle.Render("✘")
	}
}

func (cmd *DoctorCmd) outputText(results []doctor.Result) error {
	w := os.Stderr

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.TextPrimaryBoldStyle.Render("Aula Doctor"))
	_, _ = fmt.Fprintln(w, styles.TextMutedStyle.Render(strings.Repeat("─", 40)))

	for _, result := range results {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.TextForegroundBoldStyle.Render(result.Name))
		for _, item := range result.Items {
			line := "  " + statusIcon(item.Status) + " " + item.Label
			if item.Detail != "" {
				line += " " + styles.TextMutedStyle.Render(item.Detail)
			}
			_, _ = fmt.Fprintln(w, line)
		}
	}

	passed, warned, failed := doctor.Summary(results)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
		styles.TextSuccessStyle.Render(fmt.Sprintf("%d passed", passed)),
		styles.TextWarningStyle.Render(fmt.Sprintf("%d warnings", warned)),
		styles.TextErrorStyle.Render(fmt.Sprintf("%d failed", failed)),
	)

	if fixable := doctor.CountFixable(results); !cmd.autofix && fixable > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.TextMutedStyle.Render(fmt.Sprintf("Run 'aula doctor --autofix' to fix %d issue(s)", fixable)))
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}
