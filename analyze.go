package cribrum

import (
	"context"
	"errors"
	"log/slog"

	"github.com/farcloser/cribrum/internal/integration/binary"
	"github.com/farcloser/cribrum/internal/integration/cppcheck"
	"github.com/farcloser/cribrum/internal/invocation"
	"github.com/farcloser/cribrum/internal/parse"
	"github.com/farcloser/cribrum/internal/settings"
)

/*
Usage:

cfg, err := settings.Load(settings.DefaultPath())
opts := cribrum.Options{
    Settings:     cfg,
    Suppressions: cribrum.Registry{GlobalDir: dir, SolutionDir: solution},
    Resolver:     binary.LookPath("cppcheck"),
}
result, err := cribrum.Analyze(ctx, files, opts)
for _, d := range result.Diagnostics {
    fmt.Printf("%s:%d [%s] %s\n", d.FilePath, d.Line, d.Severity, d.Message)
}

// Silence one occurrence, project-wide storage.
err = cribrum.Suppress(ctx, registry, result.Diagnostics[0], cribrum.ScopeThisMessage)

*/

// Options configures an analysis run.
type Options struct {
	Settings settings.Settings
	// Suppressions provides the registry-resolved suppression set of the project.
	Suppressions invocation.SuppressionSource

	Is64Bit bool
	Debug   bool
	// OnSavedFile selects saved-file mode rather than whole-project analysis.
	OnSavedFile bool

	// Resolver is asked for an analyzer path while the configured one does not exist.
	Resolver binary.Resolver
	// PersistAnalyzerPath stores a newly resolved analyzer path.
	PersistAnalyzerPath func(path string) error
	// Runner defaults to launching the analyzer as a child process of the project directory.
	Runner cppcheck.Runner
	// OnDiagnostic, when set, is called for every diagnostic as soon as it is parsed.
	OnDiagnostic func(*Diagnostic)
}

// BuildArguments assembles the analyzer invocation without running it.
// An empty batch yields nil.
func BuildArguments(ctx context.Context, files []SourceFile, opts Options) (*Arguments, error) {
	return invocation.NewBuilder(opts.Settings, opts.Suppressions).Build(ctx, files, invocation.Target{
		Is64Bit:     opts.Is64Bit,
		Debug:       opts.Debug,
		OnSavedFile: opts.OnSavedFile,
	})
}

// Analyze runs the analyzer over files of a single project and collects its diagnostics.
// It returns nil without error when there is nothing to analyze or the user cancelled locating
// the analyzer. On analyzer failure, the diagnostics gathered so far are returned with the error.
func Analyze(ctx context.Context, files []SourceFile, opts Options) (*Result, error) {
	args, err := BuildArguments(ctx, files, opts)
	if err != nil || args == nil {
		return nil, err
	}

	analyzer, err := binary.Resolve(ctx, opts.Settings.AnalyzerPath, opts.Resolver)
	if err != nil {
		if errors.Is(err, binary.ErrCancelled) {
			slog.Info("analysis cancelled", "reason", err)

			return nil, nil //nolint:nilnil // cancelled by the user
		}

		return nil, err
	}

	if analyzer != opts.Settings.AnalyzerPath && opts.PersistAnalyzerPath != nil {
		if err = opts.PersistAnalyzerPath(analyzer); err != nil {
			slog.Warn("failed to persist analyzer path", "path", analyzer, "error", err)
		}
	}

	basePath, projectName := files[0].BaseProjectPath, files[0].ProjectName

	runner := opts.Runner
	if runner == nil {
		runner = cppcheck.OSRunner{Dir: basePath}
	}

	parser := parse.Parser{BaseProjectPath: basePath, ProjectName: projectName}
	result := &Result{Analyzer: analyzer, Arguments: args}

	slog.Debug("cribrum.Analyze", "project", projectName, "analyzer", analyzer, "stage", "run")

	err = runner.Run(ctx, analyzer, args.Argv(), func(line string) {
		diagnostic, parseErr := parser.Line(line)
		if parseErr != nil {
			slog.Warn("skipping malformed analyzer output", "error", parseErr)
			result.FormatErrors = append(result.FormatErrors, parseErr)

			return
		}

		if diagnostic == nil {
			return
		}

		result.Add(diagnostic)

		if opts.OnDiagnostic != nil {
			opts.OnDiagnostic(diagnostic)
		}
	})

	slog.Debug("cribrum.Analyze", "project", projectName, "diagnostics", len(result.Diagnostics), "stage", "done")

	return result, err
}
