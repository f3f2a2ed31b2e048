package tools

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrToolNotFound is returned when a configured tool cannot be resolved.
var ErrToolNotFound = errors.New("tool not found")

// LookPathFunc resolves a command name to an executable path.
type LookPathFunc func(file string) (string, error)

// Resolver maps configured tool commands to executables.
//
// A command containing a path separator is checked as-is; a bare name is
// searched for on PATH.
type Resolver struct {
	lookPath LookPathFunc
}

// NewResolver creates a [Resolver] that uses exec.LookPath.
func NewResolver() *Resolver {
	return &Resolver{lookPath: exec.LookPath}
}

// NewResolverWithLookPath creates a [Resolver] with a custom lookup, for tests.
func NewResolverWithLookPath(fn LookPathFunc) *Resolver {
	return &Resolver{lookPath: fn}
}

// Resolve returns the executable for the tool's configured command.
//
// The error names the config key to fix so it can be shown to the user as-is.
func (r *Resolver) Resolve(tool, command string) (string, error) {
	path, err := r.lookPath(command)
	if err != nil {
		return "", fmt.Errorf("%w: %s (command %q); fix PATH or config key tools.%s",
			ErrToolNotFound, tool, command, tool)
	}
	return path, nil
}
