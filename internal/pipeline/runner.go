package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"qcpipe/internal/runlog"
	"qcpipe/internal/status"
	"qcpipe/internal/tools"
)

// Runner executes single tasks: skip check, directory creation, logged
// invocation and result classification.
type Runner struct {
	log      *runlog.Log
	executor tools.Executor
	dryRun   bool
	now      func() time.Time
}

// NewRunner creates a [Runner]. In dry-run mode commands are logged but
// never executed.
func NewRunner(log *runlog.Log, executor tools.Executor, dryRun bool) *Runner {
	return &Runner{
		log:      log,
		executor: executor,
		dryRun:   dryRun,
		now:      time.Now,
	}
}

// RunTask executes the task and returns its result. It never returns an
// error: every problem is reported as a FAIL result.
func (r *Runner) RunTask(ctx context.Context, task Task) (result status.StepResult) {
	result = status.StepResult{
		Sample: task.Sample,
		Step:   task.Step.Name,
	}

	if OutputsExist(task.Outputs) {
		result.Status = status.StatusSkip
		result.Detail = task.SkipDetail
		return result
	}

	result.Command = task.Command.String()
	start := r.now()
	defer func() { result.Duration = r.now().Sub(start) }()

	for _, dir := range task.Dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			result.Status = status.StatusFail
			result.Detail = fmt.Sprintf("cannot create output directory: %v", err)
			return result
		}
	}

	code, err := r.log.Run(ctx, r.executor, task.Command, r.dryRun)
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		result.Status = status.StatusFail
		result.Detail = status.DetailInterrupted
	case err != nil:
		result.Status = status.StatusFail
		result.Detail = err.Error()
	case code != 0:
		result.Status = status.StatusFail
		result.Detail = fmt.Sprintf("exit status %d", code)
	case r.dryRun:
		result.Status = status.StatusOK
		result.Detail = status.DetailDryRun
	default:
		result.Status = status.StatusOK
	}

	return result
}
