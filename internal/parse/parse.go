// Package parse turns analyzer output lines, formatted as {file}|{line}|{severity}|{id}|{message},
// into diagnostics.
package parse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/farcloser/cribrum/internal/types"
)

const (
	separator = "|"
	fields    = 5
)

// ErrFormat is returned for a line with the expected shape but a non-numeric line number.
var ErrFormat = errors.New("malformed analyzer output")

// Parser stamps every diagnostic with the project of the run.
type Parser struct {
	BaseProjectPath string
	ProjectName     string
}

// Line parses one output line. Lines that are not diagnostics yield nil without error.
func (p Parser) Line(line string) (*types.Diagnostic, error) {
	line = strings.TrimRight(line, "\r\n")

	if strings.TrimSpace(line) == "" || !strings.Contains(line, separator) {
		return nil, nil //nolint:nilnil // not a diagnostic
	}

	parsed := strings.Split(line, separator)
	if len(parsed) != fields {
		return nil, nil //nolint:nilnil // not a diagnostic
	}

	lineNumber := 0

	if raw := strings.TrimSpace(parsed[1]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: line number %q: %q", ErrFormat, parsed[1], line)
		}

		lineNumber = n
	}

	return &types.Diagnostic{
		Severity:        types.ParseSeverity(parsed[2]),
		MessageID:       parsed[3],
		Message:         parsed[4],
		FilePath:        parsed[0],
		Line:            lineNumber,
		BaseProjectPath: p.BaseProjectPath,
		ProjectName:     p.ProjectName,
	}, nil
}

// Lines parses every line of reader. Malformed lines do not stop parsing; their errors are
// returned alongside the diagnostics.
func (p Parser) Lines(reader io.Reader) ([]*types.Diagnostic, []error, error) {
	var (
		diagnostics []*types.Diagnostic
		malformed   []error
	)

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		diagnostic, err := p.Line(scanner.Text())
		if err != nil {
			malformed = append(malformed, err)

			continue
		}

		if diagnostic != nil {
			diagnostics = append(diagnostics, diagnostic)
		}
	}

	if err := scanner.Err(); err != nil {
		return diagnostics, malformed, fmt.Errorf("reading analyzer output: %w", err)
	}

	return diagnostics, malformed, nil
}
