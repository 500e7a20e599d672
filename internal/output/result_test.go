package output_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/farcloser/cribrum"
	"github.com/farcloser/cribrum/internal/output"
	"github.com/farcloser/cribrum/internal/parse"
	"github.com/farcloser/cribrum/internal/types"
)

func TestResultToMap(t *testing.T) {
	result := &cribrum.Result{
		Diagnostics: []*cribrum.Diagnostic{
			{Severity: types.SeverityWarning, MessageID: "uninitvar", Message: "x", FilePath: "a.cpp", Line: 3, ProjectName: "engine"},
		},
		FormatErrors: []error{parse.ErrFormat},
		Warnings:     1,
	}

	meta := output.ResultToMap(result)

	assert.Equal(t, map[string]any{
		"diagnostic_count": 1,
		"errors":           0,
		"warnings":         1,
		"infos":            0,
		"worst_severity":   "warning",
	}, meta["summary"])
	assert.Equal(t, []any{map[string]any{
		"file":     "a.cpp",
		"line":     3,
		"severity": "warning",
		"id":       "uninitvar",
		"message":  "x",
		"project":  "engine",
	}}, meta["diagnostics"])
	assert.Equal(t, []any{parse.ErrFormat.Error()}, meta["malformed_output"])
	assert.NotContains(t, meta, "invocation")
}
