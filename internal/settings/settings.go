// Package settings loads the analyzer configuration once per run and persists the analyzer path.
package settings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/farcloser/primordium/fault"
	"github.com/viant/afs"
)

const (
	// Template makes cppcheck emit one pipe-delimited line per diagnostic.
	Template = "--template={file}|{line}|{severity}|{id}|{message}"

	defaultArguments  = "--inline-suppr " + Template
	defaultSeverities = "warning,style,performance,portability,information"
	fileName          = "settings.toml"
	dirName           = "cribrum"
	fileMode          = 0o644
)

// ErrWriteFailure is returned when the settings file cannot be written.
var ErrWriteFailure = errors.New("failed to write settings")

// Settings is the user configuration consumed by an analysis run. It is a plain value: build it
// once at the boundary and pass it down.
type Settings struct {
	// DefaultArguments is prepended verbatim to every invocation.
	DefaultArguments string `toml:"default_arguments"`
	// Severities is appended as --enable=<Severities> when not empty.
	Severities string `toml:"severities"`
	// Suppressions is a comma-separated list of inline suppression rules.
	Suppressions string `toml:"suppressions"`
	Inconclusive bool   `toml:"inconclusive"`
	// FileOnlyCurrentConfig restricts saved-file analysis to the active configuration macros.
	FileOnlyCurrentConfig bool `toml:"file_only_current_config"`
	// ProjectOnlyCurrentConfig restricts whole-project analysis to the active configuration macros.
	ProjectOnlyCurrentConfig bool   `toml:"project_only_current_config"`
	AnalyzerPath             string `toml:"analyzer_path"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		DefaultArguments:         defaultArguments,
		Severities:               defaultSeverities,
		FileOnlyCurrentConfig:    true,
		ProjectOnlyCurrentConfig: false,
	}
}

// DefaultPath is the settings file under the user configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, dirName, fileName)
}

// InlineSuppressions splits the comma-separated Suppressions setting.
func (s Settings) InlineSuppressions() []string {
	return strings.Split(s.Suppressions, ",")
}

// OnlyCurrentConfig reports whether the macro branch applies for the given mode.
func (s Settings) OnlyCurrentConfig(onSavedFile bool) bool {
	if onSavedFile {
		return s.FileOnlyCurrentConfig
	}

	return s.ProjectOnlyCurrentConfig
}

// Load decodes the settings file at path on top of Default. A missing file yields Default.
func Load(path string) (Settings, error) {
	slog.Debug("settings.Load", "path", path)

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return Settings{}, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, path, err)
	}

	return cfg, nil
}

// SaveAnalyzerPath persists a resolved analyzer path, leaving every other stored value untouched.
func SaveAnalyzerPath(ctx context.Context, path, analyzerPath string) error {
	slog.Debug("settings.SaveAnalyzerPath", "path", path, "analyzer", analyzerPath)

	cfg, err := Load(path)
	if err != nil {
		return err
	}

	if cfg.AnalyzerPath == analyzerPath {
		return nil
	}

	cfg.AnalyzerPath = analyzerPath

	var buf bytes.Buffer
	if err = toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	// Same storage layer as the suppression files; Upload creates missing parents.
	if err = afs.New().Upload(ctx, path, fileMode, &buf); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailure, path, err)
	}

	return nil
}
