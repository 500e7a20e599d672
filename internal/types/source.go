package types

import "strings"

// CompilerVersion identifies the MSVC toolset a project is built with.
type CompilerVersion int

const (
	CompilerUnknown CompilerVersion = iota
	CompilerVC2003
	CompilerVC2005
	CompilerVC2008
	CompilerVC2010
	CompilerVC2012
	CompilerVC2013
	CompilerVCFuture
)

//nolint:gochecknoglobals // lookup table, effectively const
var compilerNames = map[CompilerVersion]string{
	CompilerVC2003:   "vc2003",
	CompilerVC2005:   "vc2005",
	CompilerVC2008:   "vc2008",
	CompilerVC2010:   "vc2010",
	CompilerVC2012:   "vc2012",
	CompilerVC2013:   "vc2013",
	CompilerVCFuture: "vcfuture",
}

func (v CompilerVersion) String() string {
	if name, ok := compilerNames[v]; ok {
		return name
	}

	return "unknown"
}

// ParseCompilerVersion maps a tag such as "vc2013" to its CompilerVersion.
// Unrecognized tags yield CompilerUnknown.
func ParseCompilerVersion(tag string) CompilerVersion {
	tag = strings.ToLower(strings.TrimSpace(tag))

	for version, name := range compilerNames {
		if name == tag {
			return version
		}
	}

	return CompilerUnknown
}

// SourceFile is one file handed over by the project model for analysis.
// All files of a single analysis run share BaseProjectPath and ProjectName.
type SourceFile struct {
	FilePath         string
	BaseProjectPath  string
	ProjectName      string
	IncludePaths     []string
	Macros           []string
	MacrosToUndefine []string
	CompilerVersion  CompilerVersion
}
