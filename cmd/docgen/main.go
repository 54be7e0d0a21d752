// Command docgen writes the CLI reference for aula as markdown, by default
// to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/aula/internal/commands"
)

func main() {
	flags := &commands.Flags{}
	app := &commands.App{}

	root := &cli.Command{
		Name:      "aula",
		Usage:     "Browse the Spanish Django course from the terminal",
		UsageText: "aula [global options] command [command options]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "log level (debug, info, warn, error, fatal, panic)", Sources: cli.EnvVars("AULA_LOG_LEVEL"), Value: "info"},
			&cli.StringFlag{Name: "log-file", Usage: "path to log file (defaults to <data-dir>/aula.log)", Sources: cli.EnvVars("AULA_LOG_FILE")},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to config file", Sources: cli.EnvVars("AULA_CONFIG"), Value: "~/.config/aula/config.yaml"},
			&cli.StringFlag{Name: "data-dir", Usage: "path to data directory", Sources: cli.EnvVars("AULA_DATA_DIR"), Value: "~/.local/share/aula"},
			&cli.StringFlag{Name: "base-url", Usage: "site to talk to, overriding site.base_url", Sources: cli.EnvVars("AULA_BASE_URL")},
		},
	}

	root = commands.NewDownloadCmd(flags, app).Register(root)
	root = commands.NewHistoryCmd(flags, app).Register(root)
	root = commands.NewDoctorCmd(flags, app).Register(root)
	root = commands.NewConfigValidateCmd(flags, app).Register(root)
	root = commands.NewDevserverCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating %s: %v\n", filepath.Dir(outPath), err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
