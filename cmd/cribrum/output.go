//nolint:wrapcheck
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/farcloser/primordium/format"
	"github.com/fatih/color"

	"github.com/farcloser/cribrum"
	"github.com/farcloser/cribrum/internal/output"
	"github.com/farcloser/cribrum/internal/types"
)

//nolint:gochecknoglobals // display configuration, effectively const
var severityColors = map[types.Severity]*color.Color{
	types.SeverityError:   color.New(color.FgRed, color.Bold),
	types.SeverityWarning: color.New(color.FgYellow, color.Bold),
	types.SeverityInfo:    color.New(color.FgCyan),
}

func outputResult(object string, result *cribrum.Result, formatName string) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	if object == "" {
		object = "analysis"
	}

	data := &format.Data{
		Object: object,
		Meta:   output.ResultToMap(result),
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}

// liveDiagnostic prints each diagnostic as the analyzer reports it.
func liveDiagnostic(writer io.Writer) func(*cribrum.Diagnostic) {
	return func(diagnostic *cribrum.Diagnostic) {
		location := diagnostic.FilePath
		if diagnostic.Line > 0 {
			location = fmt.Sprintf("%s:%d", diagnostic.FilePath, diagnostic.Line)
		}

		_, _ = severityColors[diagnostic.Severity].Fprintf(writer, "[%s]", diagnostic.Severity)
		_, _ = fmt.Fprintf(writer, " %s: %s (%s)\n", location, diagnostic.Message, diagnostic.MessageID)
	}
}
