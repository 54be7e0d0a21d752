package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/aula/internal/core/leadform"
	"github.com/colonyops/aula/internal/core/notify"
	"github.com/colonyops/aula/internal/printer"
)

type DownloadCmd struct {
	flags *Flags
	app   *App
	email string
	dir   string
}

func NewDownloadCmd(flags *Flags, app *App) *DownloadCmd {
	return &DownloadCmd{flags: flags, app: app}
}

func (cmd *DownloadCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "download",
		Usage:     "Request the free chapter and save it",
		UsageText: "aula download [--email address] [--dir path]",
		Description: `Submits the book landing page form with an email address and downloads
the chapter the site unlocks.

When --email is omitted and the terminal is interactive, the address is
asked for.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "email address to register",
				Sources:     cli.EnvVars("AULA_EMAIL"),
				Destination: &cmd.email,
			},
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "directory to save the chapter in (defaults to the configured downloads dir)",
				Destination: &cmd.dir,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DownloadCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	email, err := cmd.resolveEmail()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			p.Infof("Download cancelled")
			return nil
		}
		return err
	}

	client, err := cmd.app.SiteClient()
	if err != nil {
		return err
	}

	form := leadform.New()
	req, ok, err := form.Begin(email)
	if err != nil {
		return err
	}
	if !ok {
		for _, msg := range form.FieldErrors() {
			p.Errorf("%s", msg)
		}
		return cli.Exit("", 1)
	}

	res, err := client.SubmitLead(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("lead submission failed")
	}
	if !form.Resolve(res, err) {
		for _, msg := range form.FieldErrors() {
			p.Errorf("%s", msg)
		}
		if msg := form.GeneralError(); msg != "" {
			p.Errorf("%s", msg)
		}
		cmd.record(ctx, notify.LevelError, firstNonEmpty(form.GeneralError(), leadform.MsgGeneric))
		return cli.Exit("", 1)
	}

	dir := cmd.dir
	if dir == "" {
		dir = cmd.app.Config.DownloadsDir()
	}

	path, err := client.Download(ctx, form.DownloadURL(), dir)
	if err != nil {
		cmd.record(ctx, notify.LevelError, "No se pudo descargar el capítulo.")
		return fmt.Errorf("download chapter: %w", err)
	}
	cmd.record(ctx, notify.LevelSuccess, firstNonEmpty(form.Message(), leadform.SuccessTitle))

	p.Successf("%s", leadform.SuccessTitle)
	p.Printf("  %s", path)
	p.Printf("")
	for i, step := range leadform.NextSteps {
		p.Printf("  %d. %s", i+1, step)
	}
	return nil
}

// resolveEmail returns the flag value, asking for it on an interactive
// terminal.
func (cmd *DownloadCmd) resolveEmail() (string, error) {
	if cmd.email != "" {
		return cmd.email, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("--email is required when stdin is not a terminal")
	}

	var email string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Correo Electrónico").
				Description("Te enviaremos el capítulo 1 y el enlace para completar tu perfil").
				Placeholder("tu@email.com").
				Validate(validateEmail).
				Value(&email),
		),
	).WithTheme(huh.ThemeCharm()).Run()
	return email, err
}

func validateEmail(s string) error {
	if msg := leadform.Validate(s); msg != "" {
		return errors.New(msg)
	}
	return nil
}

func (cmd *DownloadCmd) record(ctx context.Context, level notify.Level, message string) {
	if cmd.app.History == nil {
		return
	}
	_, err := cmd.app.History.Save(ctx, notify.Notification{
		Level:     level,
		Message:   message,
		Source:    cmd.app.Config.Site.LeadPath,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to record notification")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

