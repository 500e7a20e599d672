package types

import (
	"path/filepath"
	"strings"
)

// Severity of an analyzer diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}

	return "unknown"
}

// ParseSeverity maps the analyzer severity field. Only "error" and "warning" are distinguished,
// everything else (style, performance, portability, information...) is informational.
func ParseSeverity(raw string) Severity {
	switch strings.TrimSpace(raw) {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Diagnostic is a single problem reported by the analyzer.
type Diagnostic struct {
	Severity        Severity
	MessageID       string
	Message         string
	FilePath        string
	Line            int // 0 when the analyzer did not report one
	BaseProjectPath string
	ProjectName     string
}

// FileName is the base name of the reported file, as used in suppression rules.
func (d *Diagnostic) FileName() string {
	return filepath.Base(filepath.FromSlash(strings.ReplaceAll(d.FilePath, `\`, "/")))
}
