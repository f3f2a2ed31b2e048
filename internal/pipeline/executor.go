package pipeline

import (
	"context"
	"fmt"

	"qcpipe/internal/config"
	"qcpipe/internal/samples"
	"qcpipe/internal/status"
)

// TaskRunner is the interface for executing individual tasks.
//
// RunTask runs a task and classifies the outcome. It never fails: problems
// are reported as a [status.StatusFail] result. The [Runner] type implements
// this interface.
type TaskRunner interface {
	RunTask(ctx context.Context, task Task) status.StepResult
}

// ProgressCallback is invoked before each sample begins execution.
//
// The callback receives the sample index (1-based), total sample count and
// the sample name. The aggregate pass is reported with
// [status.AggregateSample] and an index one past the last sample.
type ProgressCallback func(index, total int, sample string)

// ResultCallback is invoked after every step result is recorded.
type ResultCallback func(result status.StepResult)

// Executor drives a whole run over a list of samples.
//
// Executor uses dependency injection for testability: [TaskRunner] executes
// tasks and [TaskBuilder] turns steps into commands. Use [NewExecutor] to
// create an instance and [Executor.Execute] to run it.
type Executor struct {
	plan             *Plan
	builder          *TaskBuilder
	runner           TaskRunner
	steps            config.StepsConfig
	progressCallback ProgressCallback
	resultCallback   ResultCallback
}

// NewExecutor creates a new Executor. Steps disabled in steps are never run
// and produce no result.
func NewExecutor(plan *Plan, builder *TaskBuilder, runner TaskRunner, steps config.StepsConfig) *Executor {
	return &Executor{
		plan:    plan,
		builder: builder,
		runner:  runner,
		steps:   steps,
	}
}

// SetProgressCallback configures an optional per-sample progress callback.
func (e *Executor) SetProgressCallback(cb ProgressCallback) {
	e.progressCallback = cb
}

// SetResultCallback configures an optional per-result callback.
func (e *Executor) SetResultCallback(cb ResultCallback) {
	e.resultCallback = cb
}

// Execute runs every enabled per-sample step for each sample in order, then
// every enabled aggregate step once.
//
// A FAIL abandons the remaining steps of that sample only. The aggregate
// steps run regardless of sample failures. The context is checked between
// samples and after every failed step; on cancellation the results gathered
// so far are returned with the context error.
func (e *Executor) Execute(ctx context.Context, list []samples.Sample) ([]status.StepResult, error) {
	var results []status.StepResult
	total := len(list)

	for i, sample := range list {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("run interrupted before sample %s: %w", sample.Name, err)
		}
		if e.progressCallback != nil {
			e.progressCallback(i+1, total, sample.Name)
		}

		sampleResults, err := e.runSteps(ctx, e.plan.PerSample(), sample)
		results = append(results, sampleResults...)
		if err != nil {
			return results, err
		}
	}

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("run interrupted before aggregate steps: %w", err)
	}
	if e.progressCallback != nil && e.anyEnabled(e.plan.Aggregates()) {
		e.progressCallback(total+1, total, status.AggregateSample)
	}

	aggResults, err := e.runSteps(ctx, e.plan.Aggregates(), samples.Sample{Name: status.AggregateSample})
	results = append(results, aggResults...)
	return results, err
}

// runSteps runs steps for one sample, stopping at the first failure. A
// failure caused by cancellation is returned as an error.
func (e *Executor) runSteps(ctx context.Context, steps []Step, sample samples.Sample) ([]status.StepResult, error) {
	var results []status.StepResult

	for _, step := range steps {
		if !e.steps.Enabled(step.Name) {
			continue
		}

		var result status.StepResult
		if _, missing := disabledRequirement(step, e.steps); missing {
			result = status.StepResult{
				Sample: sample.Name,
				Step:   step.Name,
				Status: status.StatusSkip,
				Detail: step.MissingDetail,
			}
		} else {
			task, err := e.builder.Build(step, sample)
			if err != nil {
				return results, err
			}
			result = e.runner.RunTask(ctx, task)
		}

		results = append(results, result)
		if e.resultCallback != nil {
			e.resultCallback(result)
		}
		if result.Failed() {
			if err := ctx.Err(); err != nil {
				return results, fmt.Errorf("run interrupted during %s/%s: %w", sample.Name, step.Name, err)
			}
			break
		}
	}

	return results, nil
}

func (e *Executor) anyEnabled(steps []Step) bool {
	for _, s := range steps {
		if e.steps.Enabled(s.Name) {
			return true
		}
	}
	return false
}

// Action is what a preview expects a task to do.
type Action string

// Preview actions.
const (
	ActionRun  Action = "run"
	ActionSkip Action = "skip"
)

// PlannedTask is a task as it would be handled by [Executor.Execute].
type PlannedTask struct {
	Task   Task
	Action Action
	Detail string
}

// Preview returns the tasks a run would handle without executing anything.
//
// Preview provides dry-run functionality with no side effects: no
// directories are created and nothing is logged. Tasks whose outputs
// already exist, or whose requirements are disabled, are reported as
// [ActionSkip].
func (e *Executor) Preview(list []samples.Sample) ([]PlannedTask, error) {
	var planned []PlannedTask

	add := func(steps []Step, sample samples.Sample) error {
		for _, step := range steps {
			if !e.steps.Enabled(step.Name) {
				continue
			}
			task, err := e.builder.Build(step, sample)
			if err != nil {
				return err
			}

			p := PlannedTask{Task: task, Action: ActionRun}
			if _, missing := disabledRequirement(step, e.steps); missing {
				p.Action = ActionSkip
				p.Detail = step.MissingDetail
			} else if OutputsExist(task.Outputs) {
				p.Action = ActionSkip
				p.Detail = task.SkipDetail
			}
			planned = append(planned, p)
		}
		return nil
	}

	for _, sample := range list {
		if err := add(e.plan.PerSample(), sample); err != nil {
			return nil, err
		}
	}
	if err := add(e.plan.Aggregates(), samples.Sample{Name: status.AggregateSample}); err != nil {
		return nil, err
	}

	return planned, nil
}
