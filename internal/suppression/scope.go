package suppression

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/farcloser/cribrum/internal/types"
)

// ErrInvalidScope is returned for scope or storage values outside the known tables.
var ErrInvalidScope = errors.New("invalid suppression scope")

// Storage is the physical tier backing a suppression.
type Storage int

const (
	StorageGlobal Storage = iota + 1
	StorageSolution
	StorageProject
)

func (s Storage) String() string {
	switch s {
	case StorageGlobal:
		return "global"
	case StorageSolution:
		return "solution"
	case StorageProject:
		return "project"
	}

	return "unknown"
}

// Scope selects both the rule written for a diagnostic and the tier receiving it.
type Scope int

const (
	ScopeThisMessage Scope = iota + 1
	ScopeThisMessageSolutionWide
	ScopeThisMessageGlobally
	ScopeThisTypeOfMessageFileWide
	ScopeThisTypeOfMessageProjectWide
	ScopeThisTypeOfMessagesSolutionWide
	ScopeThisTypeOfMessagesGlobally
	ScopeAllMessagesThisFileProjectWide
	ScopeAllMessagesThisFileSolutionWide
	ScopeAllMessagesThisFileGlobally
)

type ruleShape func(d *types.Diagnostic) string

func locationRule(d *types.Diagnostic) string {
	return d.MessageID + ":" + d.FileName() + ":" + strconv.Itoa(d.Line)
}

func fileWideRule(d *types.Diagnostic) string {
	return d.MessageID + ":" + d.FileName()
}

func idRule(d *types.Diagnostic) string {
	return d.MessageID
}

func allInFileRule(d *types.Diagnostic) string {
	return "*:" + d.FileName()
}

type scopeInfo struct {
	name    string
	shape   ruleShape
	storage Storage
}

//nolint:gochecknoglobals // lookup table, effectively const
var scopes = map[Scope]scopeInfo{
	ScopeThisMessage:                     {name: "this-message", shape: locationRule, storage: StorageProject},
	ScopeThisMessageSolutionWide:         {name: "this-message-solution", shape: locationRule, storage: StorageSolution},
	ScopeThisMessageGlobally:             {name: "this-message-global", shape: locationRule, storage: StorageGlobal},
	ScopeThisTypeOfMessageFileWide:       {name: "type-file", shape: fileWideRule, storage: StorageProject},
	ScopeThisTypeOfMessageProjectWide:    {name: "type-project", shape: idRule, storage: StorageProject},
	ScopeThisTypeOfMessagesSolutionWide:  {name: "type-solution", shape: idRule, storage: StorageSolution},
	ScopeThisTypeOfMessagesGlobally:      {name: "type-global", shape: idRule, storage: StorageGlobal},
	ScopeAllMessagesThisFileProjectWide:  {name: "file-project", shape: allInFileRule, storage: StorageProject},
	ScopeAllMessagesThisFileSolutionWide: {name: "file-solution", shape: allInFileRule, storage: StorageSolution},
	ScopeAllMessagesThisFileGlobally:     {name: "file-global", shape: allInFileRule, storage: StorageGlobal},
}

func (s Scope) String() string {
	if info, ok := scopes[s]; ok {
		return info.name
	}

	return "unknown"
}

// ScopeNames lists the accepted scope names, in declaration order.
func ScopeNames() []string {
	names := make([]string, 0, len(scopes))
	for scope := ScopeThisMessage; scope <= ScopeAllMessagesThisFileGlobally; scope++ {
		names = append(names, scopes[scope].name)
	}

	return names
}

// ParseScope maps a scope name back to its Scope.
func ParseScope(name string) (Scope, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	for scope, info := range scopes {
		if info.name == name {
			return scope, nil
		}
	}

	return 0, fmt.Errorf("%w: %q (expected one of %s)", ErrInvalidScope, name, strings.Join(ScopeNames(), ", "))
}

// StorageFor returns the tier a scope writes to.
func StorageFor(scope Scope) (Storage, error) {
	info, ok := scopes[scope]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidScope, int(scope))
	}

	return info.storage, nil
}

// Rule builds the suppression rule text for a diagnostic at the given scope.
// The three all-messages scopes produce the same text and differ only by storage.
func Rule(d *types.Diagnostic, scope Scope) (string, error) {
	info, ok := scopes[scope]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrInvalidScope, int(scope))
	}

	return info.shape(d), nil
}
