package invocation

import (
	"slices"
	"strings"
	"unicode"

	"github.com/farcloser/cribrum/internal/types"
)

const cplusplusMacro = "__cplusplus=199711L"

//nolint:gochecknoglobals // lookup table, effectively const
var msvcVersions = map[types.CompilerVersion]string{
	types.CompilerVC2003:   "_MSC_VER=1310",
	types.CompilerVC2005:   "_MSC_VER=1400",
	types.CompilerVC2008:   "_MSC_VER=1500",
	types.CompilerVC2010:   "_MSC_VER=1600",
	types.CompilerVC2012:   "_MSC_VER=1700",
	types.CompilerVC2013:   "_MSC_VER=1800",
	types.CompilerVCFuture: "_MSC_VER=1900",
}

// defines collects the macros of the active configuration. The batch shares one toolset, so the
// first file decides the compiler version.
func defines(files []types.SourceFile, target Target) []string {
	macros := map[string]struct{}{cplusplusMacro: {}}

	if version, ok := msvcVersions[files[0].CompilerVersion]; ok {
		macros[version] = struct{}{}
	}

	for _, file := range files {
		for _, macro := range file.Macros {
			macros[macro] = struct{}{}
		}
	}

	macros["WIN32"] = struct{}{}
	macros["_WIN32"] = struct{}{}

	if target.Is64Bit {
		macros["_M_X64"] = struct{}{}
		macros["_WIN64"] = struct{}{}
	} else {
		macros["_M_IX86"] = struct{}{}
	}

	if target.Debug {
		macros["_DEBUG"] = struct{}{}
	}

	return validMacros(macros)
}

func undefines(files []types.SourceFile) []string {
	macros := map[string]struct{}{}

	for _, file := range files {
		for _, macro := range file.MacrosToUndefine {
			macros[macro] = struct{}{}
		}
	}

	return validMacros(macros)
}

// validMacros drops empty macros and macros containing whitespace, which cannot be passed as a
// single -D/-U argument.
func validMacros(macros map[string]struct{}) []string {
	valid := make([]string, 0, len(macros))

	for macro := range macros {
		if macro == "" || strings.ContainsFunc(macro, unicode.IsSpace) {
			continue
		}

		valid = append(valid, macro)
	}

	slices.Sort(valid)

	return valid
}
