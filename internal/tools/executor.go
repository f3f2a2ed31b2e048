package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Executor is the interface for running external tool commands.
//
// Execute runs cmd with both stdout and stderr sent to out and returns the
// process exit code. A non-nil error means the process could not be started
// or was interrupted; the exit code is then meaningless.
type Executor interface {
	Execute(ctx context.Context, cmd Command, out io.Writer) (int, error)
}

// ProcessExecutor implements [Executor] with os/exec.
//
// The process inherits the driver's environment and working directory and
// is killed when ctx is cancelled.
type ProcessExecutor struct{}

// NewProcessExecutor creates a new [ProcessExecutor].
func NewProcessExecutor() *ProcessExecutor {
	return &ProcessExecutor{}
}

// Execute runs the command and waits for it to exit.
func (e *ProcessExecutor) Execute(ctx context.Context, cmd Command, out io.Writer) (int, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Stdout = out
	c.Stderr = out

	err := c.Run()
	if err == nil {
		return 0, nil
	}
	if ctx.Err() != nil {
		return -1, fmt.Errorf("%s interrupted: %w", cmd.Tool, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("error starting %s: %w", cmd.Tool, err)
}

var _ Executor = (*ProcessExecutor)(nil)
