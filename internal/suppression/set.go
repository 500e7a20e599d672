// Package suppression holds the layered suppression registry: rule sets, their on-disk format and
// the storage locations backing each scope.
package suppression

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/farcloser/primordium/fault"
	"github.com/viant/afs"
)

const (
	// FileMaskMarker prefixes a line holding a pattern of source files that contribute no include paths.
	FileMaskMarker = "skip-file:"
	// IncludeMaskMarker prefixes a line holding a pattern of include paths never passed to the analyzer.
	IncludeMaskMarker = "skip-include:"

	fileMode = 0o644
)

// ErrWriteFailure is returned when a suppression file cannot be persisted.
var ErrWriteFailure = errors.New("failed to write suppressions")

// Set is a mergeable collection of suppression rules and skip masks.
// Every member behaves as a set: duplicates collapse and order is irrelevant.
type Set struct {
	Rules               map[string]struct{}
	SkippedFileMasks    map[string]struct{}
	SkippedIncludeMasks map[string]struct{}
}

// New returns an empty set.
func New() *Set {
	return &Set{
		Rules:               map[string]struct{}{},
		SkippedFileMasks:    map[string]struct{}{},
		SkippedIncludeMasks: map[string]struct{}{},
	}
}

// Add inserts a rule. Blank text is ignored.
func (s *Set) Add(rule string) {
	addTrimmed(s.Rules, rule)
}

// AddFileMask inserts a skip-file pattern.
func (s *Set) AddFileMask(pattern string) {
	addTrimmed(s.SkippedFileMasks, pattern)
}

// AddIncludeMask inserts a skip-include pattern.
func (s *Set) AddIncludeMask(pattern string) {
	addTrimmed(s.SkippedIncludeMasks, pattern)
}

// Union adds every member of other into s.
func (s *Set) Union(other *Set) {
	if other == nil {
		return
	}

	for rule := range other.Rules {
		s.Rules[rule] = struct{}{}
	}

	for mask := range other.SkippedFileMasks {
		s.SkippedFileMasks[mask] = struct{}{}
	}

	for mask := range other.SkippedIncludeMasks {
		s.SkippedIncludeMasks[mask] = struct{}{}
	}
}

// Merge returns a new set holding the union of all given sets. Nil sets are skipped.
func Merge(sets ...*Set) *Set {
	merged := New()
	for _, set := range sets {
		merged.Union(set)
	}

	return merged
}

// Len is the total number of rules and masks.
func (s *Set) Len() int {
	return len(s.Rules) + len(s.SkippedFileMasks) + len(s.SkippedIncludeMasks)
}

// SortedRules returns the rules in lexical order.
func (s *Set) SortedRules() []string {
	return sortedKeys(s.Rules)
}

// MatchesFile reports whether any skip-file pattern matches anywhere in path.
func (s *Set) MatchesFile(path string) bool {
	return matchAny(path, s.SkippedFileMasks)
}

// MatchesInclude reports whether any skip-include pattern matches anywhere in path.
func (s *Set) MatchesInclude(path string) bool {
	return matchAny(path, s.SkippedIncludeMasks)
}

// Parse classifies each line of a suppression file. Lines have no length limit.
func Parse(data []byte) *Set {
	set := New()

	for raw := range bytes.Lines(data) {
		line := strings.TrimSpace(string(raw))

		switch {
		case line == "":
		case strings.HasPrefix(line, FileMaskMarker):
			set.AddFileMask(strings.TrimPrefix(line, FileMaskMarker))
		case strings.HasPrefix(line, IncludeMaskMarker):
			set.AddIncludeMask(strings.TrimPrefix(line, IncludeMaskMarker))
		default:
			set.Rules[line] = struct{}{}
		}
	}

	return set
}

// Bytes renders the set in the suppression file format. Output is sorted so that saving the
// same membership always produces the same file.
func (s *Set) Bytes() []byte {
	var buf bytes.Buffer

	for _, rule := range s.SortedRules() {
		buf.WriteString(rule)
		buf.WriteByte('\n')
	}

	for _, mask := range sortedKeys(s.SkippedFileMasks) {
		buf.WriteString(FileMaskMarker + mask)
		buf.WriteByte('\n')
	}

	for _, mask := range sortedKeys(s.SkippedIncludeMasks) {
		buf.WriteString(IncludeMaskMarker + mask)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// Load reads the suppression file at location. A missing file yields an empty set.
func Load(ctx context.Context, location string) (*Set, error) {
	slog.Debug("suppression.Load", "location", location)

	fs := afs.New()

	exists, err := fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, location, err)
	}

	if !exists {
		return New(), nil
	}

	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, location, err)
	}

	return Parse(data), nil
}

// Save writes the set to location. Upload creates missing parent directories.
func (s *Set) Save(ctx context.Context, location string) error {
	slog.Debug("suppression.Save", "location", location, "entries", s.Len())

	if err := afs.New().Upload(ctx, location, fileMode, bytes.NewReader(s.Bytes())); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailure, location, err)
	}

	return nil
}

func addTrimmed(set map[string]struct{}, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	set[value] = struct{}{}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

// matchAny uses search semantics: a pattern matches if it matches anywhere in value.
func matchAny(value string, patterns map[string]struct{}) bool {
	for pattern := range patterns {
		rgx, err := regexp.Compile(pattern)
		if err != nil {
			slog.Warn("ignoring invalid mask", "pattern", pattern, "error", err)

			continue
		}

		if rgx.MatchString(value) {
			return true
		}
	}

	return false
}
