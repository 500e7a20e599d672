package cribrum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/farcloser/cribrum/internal/suppression"
)

// ErrProjectMissing is returned when suppressing a diagnostic whose project directory is gone.
var ErrProjectMissing = errors.New("project directory does not exist")

// Suppress records a suppression rule for diagnostic in the storage tier selected by scope.
// A nil diagnostic is a no-op.
func Suppress(ctx context.Context, registry Registry, diagnostic *Diagnostic, scope Scope) error {
	if diagnostic == nil {
		return nil
	}

	rule, err := suppression.Rule(diagnostic, scope)
	if err != nil {
		return err
	}

	if info, statErr := os.Stat(diagnostic.BaseProjectPath); statErr != nil || !info.IsDir() {
		slog.Warn("cannot add suppression", "directory", diagnostic.BaseProjectPath, "rule", rule)

		return fmt.Errorf("%w: %q", ErrProjectMissing, diagnostic.BaseProjectPath)
	}

	location, err := registry.PathForScope(scope, diagnostic.BaseProjectPath, diagnostic.ProjectName)
	if err != nil {
		return err
	}

	slog.Debug("cribrum.Suppress", "rule", rule, "scope", scope, "location", location)

	set, err := suppression.Load(ctx, location)
	if err != nil {
		return err
	}

	set.Add(rule)

	if err = set.Save(ctx, location); err != nil {
		slog.Warn("failed to persist suppression", "location", location, "error", err)

		return err
	}

	return nil
}
