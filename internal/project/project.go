// Package project reads the YAML manifest describing the files of one build project, standing in
// for an IDE project model.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/farcloser/primordium/fault"
	"gopkg.in/yaml.v3"

	"github.com/farcloser/cribrum/internal/types"
)

var (
	errMissingName  = errors.New("project name is required")
	errMissingFiles = errors.New("project lists no files")
)

// File is one source file entry.
type File struct {
	Path     string   `yaml:"path"`
	Includes []string `yaml:"includes,omitempty"`
	Macros   []string `yaml:"macros,omitempty"`
	Undefine []string `yaml:"undefine,omitempty"`
}

// Project is the manifest root. Project-level includes, macros and undefines apply to every file.
type Project struct {
	Name     string   `yaml:"name"`
	Path     string   `yaml:"path,omitempty"`
	Compiler string   `yaml:"compiler,omitempty"`
	Solution string   `yaml:"solution,omitempty"`
	Includes []string `yaml:"includes,omitempty"`
	Macros   []string `yaml:"macros,omitempty"`
	Undefine []string `yaml:"undefine,omitempty"`
	Files    []File   `yaml:"files"`
}

// Load decodes the manifest at path. A relative or empty project path is taken relative to the
// manifest directory, and so is a relative solution path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-specified manifest
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, path, err)
	}

	proj, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, path, err)
	}

	proj.Path = resolve(dir, proj.Path)
	if proj.Solution != "" {
		proj.Solution = resolve(dir, proj.Solution)
	}

	return proj, nil
}

// Parse decodes and validates a manifest.
func Parse(data []byte) (*Project, error) {
	var proj Project
	if err := yaml.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	if strings.TrimSpace(proj.Name) == "" {
		return nil, errMissingName
	}

	if len(proj.Files) == 0 {
		return nil, errMissingFiles
	}

	return &proj, nil
}

// SolutionDir is the solution root, defaulting to the project path.
func (p *Project) SolutionDir() string {
	if p.Solution != "" {
		return p.Solution
	}

	return p.Path
}

// Sources returns the files to analyze, paths resolved against the project path.
// When only is not empty, files whose path is not listed are left out.
func (p *Project) Sources(only ...string) []types.SourceFile {
	wanted := map[string]struct{}{}
	for _, path := range only {
		wanted[resolve(p.Path, path)] = struct{}{}
	}

	compiler := types.ParseCompilerVersion(p.Compiler)
	sources := make([]types.SourceFile, 0, len(p.Files))

	for _, file := range p.Files {
		filePath := resolve(p.Path, file.Path)

		if len(wanted) > 0 {
			if _, ok := wanted[filePath]; !ok {
				continue
			}
		}

		includes := make([]string, 0, len(p.Includes)+len(file.Includes))
		for _, include := range append(append([]string{}, p.Includes...), file.Includes...) {
			includes = append(includes, resolve(p.Path, include))
		}

		sources = append(sources, types.SourceFile{
			FilePath:         filePath,
			BaseProjectPath:  p.Path,
			ProjectName:      p.Name,
			IncludePaths:     includes,
			Macros:           append(append([]string{}, p.Macros...), file.Macros...),
			MacrosToUndefine: append(append([]string{}, p.Undefine...), file.Undefine...),
			CompilerVersion:  compiler,
		})
	}

	return sources
}

func resolve(base, path string) string {
	if path == "" {
		return base
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(base, path)
}
