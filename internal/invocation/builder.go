// Package invocation assembles the cppcheck command line for a batch of files of one project.
package invocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/farcloser/cribrum/internal/settings"
	"github.com/farcloser/cribrum/internal/suppression"
	"github.com/farcloser/cribrum/internal/types"
)

const (
	forceFlag             = "--force"
	unmatchedSuppressions = "unmatchedSuppression"
)

// ErrMixedProjects is returned when a batch spans more than one project.
var ErrMixedProjects = errors.New("files belong to more than one project")

// cores is the analyzer parallelism passed with -j, computed once per process.
//
//nolint:gochecknoglobals // host constant
var cores = max(1, runtime.NumCPU())

// SuppressionSource provides the effective suppression set of a project.
type SuppressionSource interface {
	LoadEffective(ctx context.Context, projectBasePath, projectName string) (*suppression.Set, error)
}

// Target describes the active build configuration and analysis mode.
type Target struct {
	Is64Bit bool
	Debug   bool
	// OnSavedFile selects the saved-file mode instead of whole-project analysis.
	OnSavedFile bool
}

// Builder assembles analyzer arguments.
type Builder struct {
	Settings     settings.Settings
	Suppressions SuppressionSource
	Cores        int
}

// NewBuilder returns a Builder using the host core count.
func NewBuilder(cfg settings.Settings, suppressions SuppressionSource) *Builder {
	return &Builder{
		Settings:     cfg,
		Suppressions: suppressions,
		Cores:        cores,
	}
}

// Build returns the arguments for analyzing files. An empty batch is a no-op and returns nil.
func (b *Builder) Build(ctx context.Context, files []types.SourceFile, target Target) (*Arguments, error) {
	if len(files) == 0 {
		return nil, nil //nolint:nilnil // nothing to analyze
	}

	basePath, projectName, err := sharedProject(files)
	if err != nil {
		return nil, err
	}

	slog.Debug("invocation.Build", "project", projectName, "files", len(files), "stage", "start")

	defaults, err := splitDefaults(b.Settings.DefaultArguments)
	if err != nil {
		return nil, err
	}

	args := &Arguments{}

	for _, arg := range defaults {
		args.addRaw(arg)
	}

	if severities := strings.TrimSpace(b.Settings.Severities); severities != "" {
		args.add("--enable=" + severities)
	}

	effective := suppression.New()
	if b.Suppressions != nil {
		if effective, err = b.Suppressions.LoadEffective(ctx, basePath, projectName); err != nil {
			return nil, fmt.Errorf("loading suppressions: %w", err)
		}
	}

	inline := suppression.New()
	for _, rule := range b.Settings.InlineSuppressions() {
		inline.Add(rule)
	}

	inline.Add(unmatchedSuppressions)

	rules := suppression.Merge(inline, effective)

	for _, rule := range rules.SortedRules() {
		args.add("--suppress=" + rule)
	}

	args.addQuoted("--relative-paths=", basePath)
	args.add("-j")
	args.add(strconv.Itoa(max(1, b.Cores)))

	if b.Settings.Inconclusive {
		args.add("--inconclusive")
	}

	for _, path := range includePaths(files, basePath, effective) {
		args.addQuoted("-I", path)
	}

	for _, file := range files {
		args.addQuoted("", file.FilePath)
	}

	if b.Settings.OnlyCurrentConfig(target.OnSavedFile) {
		args.remove(forceFlag)

		for _, macro := range defines(files, target) {
			args.add("-D" + macro)
		}

		for _, macro := range undefines(files) {
			args.add("-U" + macro)
		}
	} else if !args.Contains(forceFlag) {
		args.add(forceFlag)
	}

	slog.Debug("invocation.Build", "project", projectName, "arguments", args.Len(), "stage", "done")

	return args, nil
}

func sharedProject(files []types.SourceFile) (string, string, error) {
	basePath, projectName := files[0].BaseProjectPath, files[0].ProjectName

	for _, file := range files[1:] {
		if file.BaseProjectPath != basePath || file.ProjectName != projectName {
			return "", "", fmt.Errorf("%w: %q (%s) and %q (%s)",
				ErrMixedProjects, basePath, projectName, file.BaseProjectPath, file.ProjectName)
		}
	}

	return basePath, projectName, nil
}

// includePaths unions the include paths of files not matched by a skip-file mask, always adds
// the project base path, and drops paths matched by a skip-include mask.
func includePaths(files []types.SourceFile, basePath string, masks *suppression.Set) []string {
	paths := map[string]struct{}{basePath: {}}

	for _, file := range files {
		if masks.MatchesFile(file.FilePath) {
			continue
		}

		for _, path := range file.IncludePaths {
			if strings.TrimSpace(path) != "" {
				paths[path] = struct{}{}
			}
		}
	}

	result := make([]string, 0, len(paths))

	for path := range paths {
		if !masks.MatchesInclude(path) {
			result = append(result, path)
		}
	}

	slices.Sort(result)

	return result
}
