//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/cribrum"
	"github.com/farcloser/cribrum/internal/parse"
	"github.com/farcloser/cribrum/internal/suppression"
)

var (
	errSuppressArgs   = errors.New("expected exactly one argument: an analyzer output line")
	errNotADiagnostic = errors.New("not an analyzer diagnostic line")
)

func suppressCommand() *cli.Command {
	return &cli.Command{
		Name:      "suppress",
		Usage:     "Record a suppression for a diagnostic reported by the analyzer",
		ArgsUsage: "<file|line|severity|id|message>",
		Flags: slices.Concat(commonFlags(), []cli.Flag{
			&cli.StringFlag{
				Name:    "scope",
				Aliases: []string{"s"},
				Usage:   "Suppression scope: " + strings.Join(suppression.ScopeNames(), ", "),
				Value:   cribrum.ScopeThisMessage.String(),
			},
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errSuppressArgs, cmd.NArg())
			}

			if err := setupLogging(cmd); err != nil {
				return err
			}

			scope, err := cribrum.ParseScope(cmd.String("scope"))
			if err != nil {
				return err
			}

			proj, err := loadProject(cmd)
			if err != nil {
				return err
			}

			parser := parse.Parser{BaseProjectPath: proj.Path, ProjectName: proj.Name}

			diagnostic, err := parser.Line(cmd.Args().First())
			if err != nil {
				return err
			}

			if diagnostic == nil {
				return fmt.Errorf("%w: %q", errNotADiagnostic, cmd.Args().First())
			}

			return cribrum.Suppress(ctx, registryFor(cmd, proj), diagnostic, scope)
		},
	}
}
