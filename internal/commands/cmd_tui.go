package commands

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/aula/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(_ context.Context, _ *cli.Command) error {
	client, err := cmd.app.SiteClient()
	if err != nil {
		return err
	}

	var warnings []string
	for _, w := range cmd.app.Config.Warnings() {
		warnings = append(warnings, fmt.Sprintf("%s: %s", w.Category, w.Message))
	}

	m := tui.New(cmd.app.Config, tui.Options{
		Client:   client,
		Store:    cmd.app.History,
		Build:    cmd.app.Build,
		Warnings: warnings,
	})

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
