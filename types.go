package cribrum

import (
	"github.com/farcloser/cribrum/internal/invocation"
	"github.com/farcloser/cribrum/internal/suppression"
	"github.com/farcloser/cribrum/internal/types"
)

type (
	// SourceFile is one file of the analyzed project.
	SourceFile = types.SourceFile
	// Diagnostic is one problem reported by the analyzer.
	Diagnostic = types.Diagnostic
	// Severity of a Diagnostic.
	Severity = types.Severity
	// Scope selects where and how broadly a diagnostic is suppressed.
	Scope = suppression.Scope
	// Registry resolves the suppression files of each tier.
	Registry = suppression.Registry
	// Arguments is a built analyzer invocation.
	Arguments = invocation.Arguments
)

// Result of one analysis run.
type Result struct {
	// Analyzer is the executable that ran.
	Analyzer    string
	Arguments   *Arguments
	Diagnostics []*Diagnostic
	// FormatErrors holds output lines that looked like diagnostics but could not be parsed.
	FormatErrors []error

	Errors   int
	Warnings int
	Infos    int
}

// Add records a diagnostic and updates the severity counts.
func (r *Result) Add(diagnostic *Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, diagnostic)

	switch diagnostic.Severity {
	case types.SeverityError:
		r.Errors++
	case types.SeverityWarning:
		r.Warnings++
	default:
		r.Infos++
	}
}

// WorstSeverity is the highest severity reported, SeverityInfo when nothing was.
func (r *Result) WorstSeverity() Severity {
	switch {
	case r.Errors > 0:
		return types.SeverityError
	case r.Warnings > 0:
		return types.SeverityWarning
	default:
		return types.SeverityInfo
	}
}

const (
	ScopeThisMessage                     = suppression.ScopeThisMessage
	ScopeThisMessageSolutionWide         = suppression.ScopeThisMessageSolutionWide
	ScopeThisMessageGlobally             = suppression.ScopeThisMessageGlobally
	ScopeThisTypeOfMessageFileWide       = suppression.ScopeThisTypeOfMessageFileWide
	ScopeThisTypeOfMessageProjectWide    = suppression.ScopeThisTypeOfMessageProjectWide
	ScopeThisTypeOfMessagesSolutionWide  = suppression.ScopeThisTypeOfMessagesSolutionWide
	ScopeThisTypeOfMessagesGlobally      = suppression.ScopeThisTypeOfMessagesGlobally
	ScopeAllMessagesThisFileProjectWide  = suppression.ScopeAllMessagesThisFileProjectWide
	ScopeAllMessagesThisFileSolutionWide = suppression.ScopeAllMessagesThisFileSolutionWide
	ScopeAllMessagesThisFileGlobally     = suppression.ScopeAllMessagesThisFileGlobally
)

// ParseScope maps a scope name such as "type-project" to its Scope.
func ParseScope(name string) (Scope, error) {
	return suppression.ParseScope(name)
}
