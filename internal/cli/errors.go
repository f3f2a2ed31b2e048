package cli

import (
	"errors"
	"fmt"
)

// Exit codes returned by the run and status commands.
const (
	ExitStepFailed  = 2
	ExitInterrupted = 130
)

// ExitError carries a process exit code out of a command's RunE. Any other
// error returned from a command exits 1.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError reports the exit code carried by err, if any.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
