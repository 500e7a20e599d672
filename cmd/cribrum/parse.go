//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/cribrum"
	"github.com/farcloser/cribrum/internal/parse"
)

var errParseArgs = errors.New("expected at most one argument: file path or \"-\" for stdin")

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse saved analyzer output into diagnostics",
		ArgsUsage: "[file | -]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "project-path",
				Usage: "Base path of the project the output belongs to",
			},
			&cli.StringFlag{
				Name:  "project-name",
				Usage: "Name of the project the output belongs to",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
				Value: "warn",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 1 {
				return fmt.Errorf("%w: got %d", errParseArgs, cmd.NArg())
			}

			if err := setupLogging(cmd); err != nil {
				return err
			}

			var input io.Reader = os.Stdin

			if source := cmd.Args().First(); source != "" && source != "-" {
				file, err := os.Open(source) //nolint:gosec // CLI tool opens user-specified files
				if err != nil {
					return fmt.Errorf("opening %s: %w", source, err)
				}
				defer file.Close()

				input = file
			}

			parser := parse.Parser{
				BaseProjectPath: cmd.String("project-path"),
				ProjectName:     cmd.String("project-name"),
			}

			diagnostics, malformed, err := parser.Lines(input)
			if err != nil {
				return err
			}

			for _, parseErr := range malformed {
				slog.Warn("skipping malformed analyzer output", "error", parseErr)
			}

			result := &cribrum.Result{FormatErrors: malformed}
			for _, diagnostic := range diagnostics {
				result.Add(diagnostic)
			}

			return outputResult(parser.ProjectName, result, cmd.String("format"))
		},
	}
}
