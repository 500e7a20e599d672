package suppression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	fileName          = "suppressions.cfg"
	projectFileSuffix = "_suppressions.cfg"
	globalDirName     = "cribrum"
)

// ErrUnresolvedStorage is returned when the root directory of a tier is not known.
var ErrUnresolvedStorage = errors.New("storage location cannot be resolved")

// Registry resolves which file backs each suppression tier.
type Registry struct {
	// GlobalDir holds the user-wide suppression file.
	GlobalDir string
	// SolutionDir is the root of the solution the analyzed project belongs to.
	SolutionDir string
}

// DefaultRegistry places global suppressions under the user configuration directory.
func DefaultRegistry(solutionDir string) Registry {
	registry := Registry{SolutionDir: solutionDir}

	if dir, err := os.UserConfigDir(); err == nil {
		registry.GlobalDir = filepath.Join(dir, globalDirName)
	}

	return registry
}

type pathResolver func(r Registry, projectBasePath, projectName string) (string, error)

//nolint:gochecknoglobals // lookup table, effectively const
var storagePaths = map[Storage]pathResolver{
	StorageGlobal: func(r Registry, _, _ string) (string, error) {
		return inDir(r.GlobalDir, fileName, StorageGlobal)
	},
	StorageSolution: func(r Registry, _, _ string) (string, error) {
		return inDir(r.SolutionDir, fileName, StorageSolution)
	},
	StorageProject: func(_ Registry, projectBasePath, projectName string) (string, error) {
		if projectName == "" {
			return "", fmt.Errorf("%w: %s: no project name", ErrUnresolvedStorage, StorageProject)
		}

		return inDir(projectBasePath, projectName+projectFileSuffix, StorageProject)
	},
}

func inDir(dir, name string, storage Storage) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedStorage, storage)
	}

	return filepath.Join(dir, name), nil
}

// Path returns the suppression file backing a storage tier.
func (r Registry) Path(storage Storage, projectBasePath, projectName string) (string, error) {
	resolve, ok := storagePaths[storage]
	if !ok {
		return "", fmt.Errorf("%w: storage %d", ErrInvalidScope, int(storage))
	}

	return resolve(r, projectBasePath, projectName)
}

// PathForScope returns the suppression file a scope writes to.
func (r Registry) PathForScope(scope Scope, projectBasePath, projectName string) (string, error) {
	storage, err := StorageFor(scope)
	if err != nil {
		return "", err
	}

	return r.Path(storage, projectBasePath, projectName)
}

// Load reads one tier. An unresolved or missing file yields an empty set.
func (r Registry) Load(ctx context.Context, storage Storage, projectBasePath, projectName string) (*Set, error) {
	location, err := r.Path(storage, projectBasePath, projectName)
	if errors.Is(err, ErrUnresolvedStorage) {
		slog.Debug("suppression.Registry.Load", "storage", storage, "stage", "unresolved")

		return New(), nil
	}

	if err != nil {
		return nil, err
	}

	return Load(ctx, location)
}

// LoadEffective merges the global, solution and project tiers. Suppression is additive:
// no tier can narrow what a broader tier suppresses.
func (r Registry) LoadEffective(ctx context.Context, projectBasePath, projectName string) (*Set, error) {
	tiers := make([]*Set, 0, len(storagePaths))

	for _, storage := range []Storage{StorageGlobal, StorageSolution, StorageProject} {
		set, err := r.Load(ctx, storage, projectBasePath, projectName)
		if err != nil {
			return nil, err
		}

		tiers = append(tiers, set)
	}

	return Merge(tiers...), nil
}
