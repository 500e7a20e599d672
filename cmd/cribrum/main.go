package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/cribrum/version"
)

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "Drive cppcheck over a C/C++ project with layered suppressions",
		Version: version.Version() + " " + version.Commit(),
		Commands: []*cli.Command{
			analyzeCommand(),
			argsCommand(),
			suppressCommand(),
			parseCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
