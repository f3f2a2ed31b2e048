// Package tools locates and runs the external QC tools.
//
// This package handles resolving tool commands to executables, spawning them
// as subprocesses and capturing best-effort version strings. It knows nothing
// about what the tools do; the contract with a tool is its argument shape and
// its exit code.
//
// Key types:
//   - [Command]: a resolved tool invocation
//   - [Executor]: interface for running a [Command]
//   - [Resolver]: maps configured commands to executables on PATH
//   - [Prober]: best-effort version capture
//
// For testing, use [MockExecutor] which implements [Executor] without spawning
// real processes.
package tools

import (
	"strings"
	"unicode"
)

// Command is a single external tool invocation.
type Command struct {
	// Tool is the logical tool name, e.g. "fastqc".
	Tool string

	// Path is the executable to run.
	Path string

	// Args are the arguments, not including the executable.
	Args []string
}

// Argv returns the executable followed by its arguments.
func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, c.Path)
	return append(argv, c.Args...)
}

// String renders the command as a shell-like line for logs and reports.
// Arguments that need it are quoted with [Quote].
func (c Command) String() string {
	argv := c.Argv()
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = Quote(a)
	}
	return strings.Join(quoted, " ")
}

// shellSpecial are the characters that force quoting besides whitespace.
const shellSpecial = "\"'()[]{}$&;|<>*"

// Quote single-quotes s when it is empty or contains whitespace or shell
// metacharacters. The result is for display only.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, shellSpecial) && strings.IndexFunc(s, unicode.IsSpace) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

