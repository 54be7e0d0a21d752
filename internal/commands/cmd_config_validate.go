package commands

import (
	"context"
	"errors"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/aula/internal/core/config"
	"github.com/colonyops/aula/internal/printer"
	"github.com/colonyops/aula/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	app    *App
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags, app *App) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags, app: app}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "aula config validate [options]",
				Description: "Validates the configuration file, checking the site URL, menu paths, notification page patterns and the theme.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type fieldErrorJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.app.Config
	fieldErrs := validationErrors(cfg.ValidateDeep(cmd.flags.ConfigPath))
	warnings := cfg.Warnings()

	if cmd.format == "json" {
		out := struct {
			Valid    bool                       `json:"valid"`
			Errors   []fieldErrorJSON           `json:"errors,omitempty"`
			Warnings []config.ValidationWarning `json:"warnings,omitempty"`
		}{
			Valid:    len(fieldErrs) == 0,
			Errors:   fieldErrs,
			Warnings: warnings,
		}
		if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
			return err
		}
		if len(fieldErrs) > 0 {
			return cli.Exit("", 1)
		}
		return nil
	}

	p := printer.Ctx(ctx)
	for _, warn := range warnings {
		p.Warnf("%s: %s", warn.Category, warn.Message)
		if warn.Item != "" {
			p.Printf("  Item: %s", warn.Item)
		}
	}
	for _, fe := range fieldErrs {
		p.Errorf("%s: %s", fe.Field, fe.Message)
	}

	p.Printf("")
	if len(fieldErrs) == 0 {
		p.Successf("Configuration is valid")
		return nil
	}

	p.Errorf("%d error(s) found", len(fieldErrs))
	return cli.Exit("", 1)
}

// validationErrors flattens a validation error into one entry per field.
func validationErrors(err error) []fieldErrorJSON {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []fieldErrorJSON{{Field: "config", Message: err.Error()}}
	}

	out := make([]fieldErrorJSON, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fieldErrorJSON{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}
