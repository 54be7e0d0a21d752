package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/aula/internal/core/notify"
	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/internal/printer"
	"github.com/colonyops/aula/internal/tui/jsoncolor"
	"github.com/colonyops/aula/pkg/iojson"
)

type HistoryCmd struct {
	flags  *Flags
	app    *App
	clear  bool
	yes    bool
	asJSON bool
	limit  int
	input  iojson.FileReader[[]historyJSON]
}

func NewHistoryCmd(flags *Flags, app *App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: app}
}

func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "Show or clear the notification history",
		UsageText: "aula history [--json] [--limit n] [--clear]",
		Description: `Lists the notifications shown in the TUI and by other commands, newest
first. Notifications picked up from a page record the page path they
came from.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "delete every stored notification",
				Destination: &cmd.clear,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "do not ask before clearing",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.asJSON,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "show at most n notifications (0 for all)",
				Destination: &cmd.limit,
			},
		},
		Action: cmd.run,
		Commands: []*cli.Command{
			{
				Name:        "import",
				Usage:       "Load notifications written by 'aula history --json'",
				UsageText:   "aula history import [-f file]",
				Description: "Reads a JSON export from a file or stdin and adds its notifications to the history, keeping their original times.",
				Flags:       []cli.Flag{cmd.input.Flag()},
				Action:      cmd.runImport,
			},
		},
	})
	return app
}

type historyJSON struct {
	ID        int64  `json:"id"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Source    string `json:"source,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.clear {
		ok, err := cmd.confirmClear()
		if err != nil {
			return err
		}
		if !ok {
			p.Infof("History kept")
			return nil
		}
		if err := cmd.app.History.Clear(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		p.Successf("Notification history cleared")
		return nil
	}

	items, err := cmd.app.History.List(ctx)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	if cmd.limit > 0 && len(items) > cmd.limit {
		items = items[:cmd.limit]
	}

	if cmd.asJSON {
		return cmd.outputJSON(c, items)
	}

	if len(items) == 0 {
		p.Infof("No notifications")
		return nil
	}

	w := c.Root().Writer
	for _, n := range items {
		kind := string(n.Level)
		line := fmt.Sprintf("%s %s %s",
			styles.TextMutedStyle.Render(n.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			styles.TextForegroundStyle.Foreground(styles.KindColor(kind)).Render(styles.KindIcon(kind)),
			n.Message,
		)
		if n.Source != "" {
			line += " " + styles.TextMutedStyle.Render(n.Source)
		}
		_, _ = fmt.Fprintln(w, line)
	}
	return nil
}

func (cmd *HistoryCmd) outputJSON(c *cli.Command, items []notify.Notification) error {
	out := make([]historyJSON, 0, len(items))
	for _, n := range items {
		out = append(out, historyJSON{
			ID:        n.ID,
			Level:     string(n.Level),
			Message:   n.Message,
			Source:    n.Source,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}

	w := c.Root().Writer
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return iojson.WriteWith(w, os.Stderr, out)
	}

	var buf bytes.Buffer
	if err := iojson.WriteWith(&buf, os.Stderr, out); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, jsoncolor.Colorize(buf.Bytes()))
	return err
}

// confirmClear asks before deleting the history. Without a terminal the
// answer is taken from --yes.
func (cmd *HistoryCmd) confirmClear() (bool, error) {
	if cmd.yes {
		return true, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("refusing to clear history without a terminal; pass --yes")
	}

	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("¿Borrar todas las notificaciones?").
				Affirmative("Sí").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeCharm()).Run()
	if err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	return ok, nil
}

func (cmd *HistoryCmd) runImport(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	items, err := cmd.input.Read()
	if err != nil {
		return err
	}

	imported := 0
	for i, item := range items {
		n, err := item.notification()
		if err != nil {
			p.Warnf("entry %d skipped: %v", i+1, err)
			continue
		}
		if _, err := cmd.app.History.Save(ctx, n); err != nil {
			return fmt.Errorf("save entry %d: %w", i+1, err)
		}
		imported++
	}

	p.Successf("Imported %d of %d notification(s)", imported, len(items))
	return nil
}

func (h historyJSON) notification() (notify.Notification, error) {
	level := notify.Level(h.Level)
	switch level {
	case notify.LevelSuccess, notify.LevelInfo, notify.LevelWarning, notify.LevelError:
	default:
		return notify.Notification{}, fmt.Errorf("unknown level %q", h.Level)
	}
	if h.Message == "" {
		return notify.Notification{}, errors.New("empty message")
	}

	created, err := time.Parse(time.RFC3339Nano, h.CreatedAt)
	if err != nil {
		return notify.Notification{}, fmt.Errorf("created_at: %w", err)
	}

	return notify.Notification{Level: level, Message: h.Message, Source: h.Source, CreatedAt: created}, nil
}
