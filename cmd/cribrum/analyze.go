//nolint:wrapcheck
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/cribrum"
	"github.com/farcloser/cribrum/internal/integration/binary"
	"github.com/farcloser/cribrum/internal/integration/cppcheck"
)

func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "x64",
			Usage: "Active configuration targets 64-bit",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Active configuration is a debug build",
		},
		&cli.BoolFlag{
			Name:  "saved",
			Usage: "Saved-file mode: the listed files were just saved (selects the file-scope configuration setting)",
		},
	}
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Run cppcheck over the project files and report diagnostics",
		ArgsUsage: "[file...]",
		Flags: slices.Concat(commonFlags(), settingsFlags(), targetFlags(), []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Do not stream diagnostics to stderr while the analyzer runs",
			},
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, files, err := prepare(cmd)
			if err != nil {
				return err
			}

			opts.Resolver = binary.LookPath(cppcheck.Name())
			opts.PersistAnalyzerPath = persistAnalyzer(ctx, cmd)

			if !cmd.Bool("quiet") {
				opts.OnDiagnostic = liveDiagnostic(os.Stderr)
			}

			result, err := cribrum.Analyze(ctx, files, opts)
			if result == nil && err == nil {
				slog.Info("nothing analyzed")

				return nil
			}

			if result != nil {
				if outErr := outputResult(files[0].ProjectName, result, cmd.String("format")); outErr != nil {
					return outErr
				}
			}

			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			return nil
		},
	}
}

func argsCommand() *cli.Command {
	return &cli.Command{
		Name:      "args",
		Usage:     "Print the cppcheck arguments an analysis would use, without running it",
		ArgsUsage: "[file...]",
		Flags:     slices.Concat(commonFlags(), settingsFlags(), targetFlags()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, files, err := prepare(cmd)
			if err != nil {
				return err
			}

			args, err := cribrum.BuildArguments(ctx, files, opts)
			if err != nil {
				return err
			}

			if args == nil {
				return nil
			}

			_, err = fmt.Fprintln(os.Stdout, args.String())

			return err
		},
	}
}

// prepare loads settings and the project and selects the files named on the command line,
// all of them when none is.
func prepare(cmd *cli.Command) (cribrum.Options, []cribrum.SourceFile, error) {
	if err := setupLogging(cmd); err != nil {
		return cribrum.Options{}, nil, err
	}

	proj, err := loadProject(cmd)
	if err != nil {
		return cribrum.Options{}, nil, err
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return cribrum.Options{}, nil, err
	}

	files := proj.Sources(cmd.Args().Slice()...)
	if cmd.NArg() > 0 && len(files) != cmd.NArg() {
		return cribrum.Options{}, nil, fmt.Errorf("%w: %d of %d files are not part of project %q",
			errUnknownFiles, cmd.NArg()-len(files), cmd.NArg(), proj.Name)
	}

	return cribrum.Options{
		Settings:     cfg,
		Suppressions: registryFor(cmd, proj),
		Is64Bit:      cmd.Bool("x64"),
		Debug:        cmd.Bool("debug"),
		OnSavedFile:  cmd.Bool("saved"),
	}, files, nil
}
