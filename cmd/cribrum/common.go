//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/cribrum"
	"github.com/farcloser/cribrum/internal/project"
	"github.com/farcloser/cribrum/internal/settings"
	"github.com/farcloser/cribrum/internal/suppression"
)

var (
	errMissingProject = errors.New("--project is required")
	errUnknownFiles   = errors.New("unknown files")
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "project",
			Aliases: []string{"p"},
			Usage:   "Project manifest (YAML) listing the files, include paths and macros",
		},
		&cli.StringFlag{
			Name:  "settings",
			Usage: "Settings file (TOML)",
			Value: settings.DefaultPath(),
		},
		&cli.StringFlag{
			Name:  "solution",
			Usage: "Solution root holding solution-wide suppressions (defaults to the manifest solution, then the project path)",
		},
		&cli.StringFlag{
			Name:  "global-dir",
			Usage: "Directory holding global suppressions (defaults to the user configuration directory)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
			Value: "warn",
		},
	}
}

func settingsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "analyzer",
			Usage: "Path to the cppcheck executable (overrides settings)",
		},
		&cli.StringFlag{
			Name:  "severities",
			Usage: "Severities passed to --enable (overrides settings)",
		},
		&cli.StringFlag{
			Name:  "suppressions",
			Usage: "Comma-separated inline suppressions (overrides settings)",
		},
		&cli.BoolFlag{
			Name:  "inconclusive",
			Usage: "Report inconclusive findings (overrides settings)",
		},
		&cli.BoolFlag{
			Name:  "only-current-config",
			Usage: "Check only the active configuration macros for the selected mode (overrides settings)",
		},
	}
}

func setupLogging(cmd *cli.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	slog.SetLogLoggerLevel(level)

	return nil
}

func loadProject(cmd *cli.Command) (*project.Project, error) {
	path := cmd.String("project")
	if path == "" {
		return nil, errMissingProject
	}

	return project.Load(path)
}

// loadSettings reads the settings file once and applies command line overrides.
func loadSettings(cmd *cli.Command) (settings.Settings, error) {
	cfg, err := settings.Load(cmd.String("settings"))
	if err != nil {
		return settings.Settings{}, err
	}

	if cmd.IsSet("analyzer") {
		cfg.AnalyzerPath = cmd.String("analyzer")
	}

	if cmd.IsSet("severities") {
		cfg.Severities = cmd.String("severities")
	}

	if cmd.IsSet("suppressions") {
		cfg.Suppressions = cmd.String("suppressions")
	}

	if cmd.IsSet("inconclusive") {
		cfg.Inconclusive = cmd.Bool("inconclusive")
	}

	if cmd.IsSet("only-current-config") {
		cfg.FileOnlyCurrentConfig = cmd.Bool("only-current-config")
		cfg.ProjectOnlyCurrentConfig = cmd.Bool("only-current-config")
	}

	return cfg, nil
}

func registryFor(cmd *cli.Command, proj *project.Project) cribrum.Registry {
	solution := cmd.String("solution")
	if solution == "" {
		solution = proj.SolutionDir()
	}

	registry := suppression.DefaultRegistry(solution)

	if dir := cmd.String("global-dir"); dir != "" {
		registry.GlobalDir = dir
	}

	return registry
}

// persistAnalyzer stores the analyzer path next to the other settings, once resolved.
func persistAnalyzer(ctx context.Context, cmd *cli.Command) func(string) error {
	return func(analyzer string) error {
		path := cmd.String("settings")
		if path == "" {
			return nil
		}

		if abs, err := filepath.Abs(analyzer); err == nil {
			analyzer = abs
		}

		return settings.SaveAnalyzerPath(ctx, path, analyzer)
	}
}
