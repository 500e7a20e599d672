// Package output provides shared result serialization for cribrum structured output.
package output

import (
	"github.com/farcloser/cribrum"
)

// ResultToMap converts an analysis result into the canonical map structure
// used for JSON and markdown serialization.
func ResultToMap(result *cribrum.Result) map[string]any {
	meta := map[string]any{
		"summary": SummaryToMap(result),
	}

	diagnostics := make([]any, 0, len(result.Diagnostics))
	for _, diagnostic := range result.Diagnostics {
		diagnostics = append(diagnostics, DiagnosticToMap(diagnostic))
	}

	meta["diagnostics"] = diagnostics

	if len(result.FormatErrors) > 0 {
		malformed := make([]any, 0, len(result.FormatErrors))
		for _, err := range result.FormatErrors {
			malformed = append(malformed, err.Error())
		}

		meta["malformed_output"] = malformed
	}

	if result.Arguments != nil {
		meta["invocation"] = map[string]any{
			"analyzer":  result.Analyzer,
			"arguments": result.Arguments.String(),
		}
	}

	return meta
}

// SummaryToMap counts diagnostics per severity.
func SummaryToMap(result *cribrum.Result) map[string]any {
	return map[string]any{
		"diagnostic_count": len(result.Diagnostics),
		"errors":           result.Errors,
		"warnings":         result.Warnings,
		"infos":            result.Infos,
		"worst_severity":   result.WorstSeverity().String(),
	}
}

// DiagnosticToMap converts a single diagnostic to a map.
func DiagnosticToMap(diagnostic *cribrum.Diagnostic) map[string]any {
	return map[string]any{
		"file":     diagnostic.FilePath,
		"line":     diagnostic.Line,
		"severity": diagnostic.Severity.String(),
		"id":       diagnostic.MessageID,
		"message":  diagnostic.Message,
		"project":  diagnostic.ProjectName,
	}
}
