// Package binary locates external executables.
package binary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/farcloser/primordium/fault"
)

// ErrCancelled is returned by a Resolver when the user gives up locating the executable.
var ErrCancelled = errors.New("executable resolution cancelled")

// Resolver proposes a candidate executable path, typically by asking the user.
type Resolver func(ctx context.Context) (string, error)

// Available checks if a binary is available in the system PATH.
func Available(binName string) (string, bool) {
	path, err := exec.LookPath(binName)

	return path, err == nil
}

// LookPath is a Resolver backed by the system PATH.
func LookPath(binName string) Resolver {
	return func(context.Context) (string, error) {
		path, found := Available(binName)
		if !found {
			return "", fmt.Errorf("%w: %s", fault.ErrMissingRequirements, binName)
		}

		return path, nil
	}
}

// Exists reports whether path is an existing regular file.
func Exists(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// Resolve returns configured when it exists, otherwise asks resolver until it yields an
// existing file. Resolver errors end the loop: ErrCancelled is passed through untouched,
// anything else is reported as a missing requirement.
func Resolve(ctx context.Context, configured string, resolver Resolver) (string, error) {
	candidate := configured

	for !Exists(candidate) {
		if resolver == nil {
			return "", fmt.Errorf("%w: analyzer not found at %q", fault.ErrMissingRequirements, candidate)
		}

		if err := ctx.Err(); err != nil {
			return "", err
		}

		slog.Debug("binary.Resolve", "candidate", candidate, "stage", "ask")

		next, err := resolver(ctx)
		if err != nil {
			if errors.Is(err, ErrCancelled) || errors.Is(err, fault.ErrMissingRequirements) {
				return "", err
			}

			return "", fmt.Errorf("%w: %w", fault.ErrMissingRequirements, err)
		}

		candidate = next
	}

	return candidate, nil
}
