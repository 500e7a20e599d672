package invocation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/shlex"
)

// ErrInvalidArguments is returned when the configured default arguments cannot be split.
var ErrInvalidArguments = errors.New("invalid default arguments")

type token struct {
	flag   string
	value  string
	quoted bool
}

func (t token) argv() string {
	return t.flag + t.value
}

func (t token) display() string {
	if t.quoted {
		return t.flag + `"` + t.value + `"`
	}

	return t.flag + t.value
}

// Arguments is the ordered argument list of one analyzer invocation.
type Arguments struct {
	tokens []token
}

func (a *Arguments) add(arg string) {
	a.tokens = append(a.tokens, token{flag: arg})
}

// addRaw appends an argument taken from user configuration. Values holding whitespace keep
// their quotes when rendered.
func (a *Arguments) addRaw(arg string) {
	if !strings.ContainsAny(arg, " \t") {
		a.add(arg)

		return
	}

	if flag, value, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(flag, "-") {
		a.addQuoted(flag+"=", value)

		return
	}

	a.addQuoted("", arg)
}

func (a *Arguments) addQuoted(flag, value string) {
	a.tokens = append(a.tokens, token{flag: flag, value: value, quoted: true})
}

// remove drops every bare token equal to arg.
func (a *Arguments) remove(arg string) {
	a.tokens = slices.DeleteFunc(a.tokens, func(t token) bool {
		return !t.quoted && t.flag == arg
	})
}

// Contains reports whether arg is present as a standalone token. Quoted values (paths) never match.
func (a *Arguments) Contains(arg string) bool {
	return slices.ContainsFunc(a.tokens, func(t token) bool {
		return !t.quoted && t.flag == arg
	})
}

// Argv returns the arguments ready for exec, without shell quoting.
func (a *Arguments) Argv() []string {
	argv := make([]string, 0, len(a.tokens))
	for _, t := range a.tokens {
		argv = append(argv, t.argv())
	}

	return argv
}

// String renders the invocation as a single command string, paths quoted.
func (a *Arguments) String() string {
	parts := make([]string, 0, len(a.tokens))
	for _, t := range a.tokens {
		parts = append(parts, t.display())
	}

	return strings.Join(parts, " ")
}

// Len is the number of tokens.
func (a *Arguments) Len() int {
	return len(a.tokens)
}

// splitDefaults tokenizes a configured argument string the way a shell would, quotes removed.
// Backslashes are literal unless they escape a double quote, so Windows paths survive.
func splitDefaults(line string) ([]string, error) {
	var escaped strings.Builder

	for i := range len(line) {
		escaped.WriteByte(line[i])

		if line[i] == '\\' && (i+1 == len(line) || line[i+1] != '"') {
			escaped.WriteByte('\\')
		}
	}

	args, err := shlex.Split(escaped.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidArguments, line, err)
	}

	return args, nil
}
