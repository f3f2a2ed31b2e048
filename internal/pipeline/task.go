package pipeline

import (
	"fmt"
	"strconv"

	"qcpipe/internal/config"
	"qcpipe/internal/layout"
	"qcpipe/internal/samples"
	"qcpipe/internal/status"
	"qcpipe/internal/tools"
)

// Task is one step bound to one sample.
type Task struct {
	Step   Step
	Sample string

	// Command is the tool invocation.
	Command tools.Command

	// Outputs are the files whose presence marks the task as done.
	Outputs []string

	// Dirs are created before the command runs.
	Dirs []string

	// SkipDetail is recorded when all Outputs already exist.
	SkipDetail string
}

// TaskBuilder builds tasks from the configuration and output layout.
type TaskBuilder struct {
	cfg    *config.Config
	layout layout.Layout
	paths  map[string]string
}

// NewTaskBuilder creates a [TaskBuilder]. paths maps tool names to resolved
// executables; tools without an entry fall back to the configured command.
func NewTaskBuilder(cfg *config.Config, paths map[string]string) *TaskBuilder {
	return &TaskBuilder{
		cfg:    cfg,
		layout: layout.New(cfg.Outdir),
		paths:  paths,
	}
}

// Layout returns the output layout tasks are built against.
func (b *TaskBuilder) Layout() layout.Layout {
	return b.layout
}

func (b *TaskBuilder) command(tool string, args ...string) tools.Command {
	path := b.paths[tool]
	if path == "" {
		path = b.cfg.Tools.Command(tool)
	}
	return tools.Command{Tool: tool, Path: path, Args: args}
}

// Build returns the task for step on sample. Aggregate steps ignore the
// sample and are built for [status.AggregateSample].
func (b *TaskBuilder) Build(step Step, sample samples.Sample) (Task, error) {
	threads := strconv.Itoa(b.cfg.Threads)

	switch step.Name {
	case config.StepFastQCRaw:
		dir := b.layout.RawQC()
		return Task{
			Step:   step,
			Sample: sample.Name,
			Command: b.command(step.Tool,
				"--threads", threads, "--outdir", dir, sample.FQ1, sample.FQ2),
			Outputs:    []string{layout.FastQCZip(dir, sample.FQ1), layout.FastQCZip(dir, sample.FQ2)},
			Dirs:       []string{dir},
			SkipDetail: status.DetailOutputsExist,
		}, nil

	case config.StepTrimFastp:
		out := b.layout.TrimOutputs(sample.Name)
		args := []string{
			"--in1", sample.FQ1, "--in2", sample.FQ2,
			"--out1", out.R1, "--out2", out.R2,
			"--json", out.JSON, "--html", out.HTML,
			"--thread", threads,
		}
		args = append(args, b.cfg.Fastp.Args()...)
		return Task{
			Step:       step,
			Sample:     sample.Name,
			Command:    b.command(step.Tool, args...),
			Outputs:    out.All(),
			Dirs:       []string{b.layout.Trim(sample.Name)},
			SkipDetail: status.DetailOutputsExist,
		}, nil

	case config.StepFastQCTrimmed:
		dir := b.layout.TrimmedQC()
		trimmed := b.layout.TrimOutputs(sample.Name)
		return Task{
			Step:   step,
			Sample: sample.Name,
			Command: b.command(step.Tool,
				"--threads", threads, "--outdir", dir, trimmed.R1, trimmed.R2),
			Outputs:    []string{layout.FastQCZip(dir, trimmed.R1), layout.FastQCZip(dir, trimmed.R2)},
			Dirs:       []string{dir},
			SkipDetail: status.DetailOutputsExist,
		}, nil

	case config.StepMultiQC:
		dir := b.layout.MultiQC()
		args := []string{b.layout.Root, "--outdir", dir, "--force"}
		args = append(args, b.cfg.MultiQC.Args()...)
		return Task{
			Step:       step,
			Sample:     status.AggregateSample,
			Command:    b.command(step.Tool, args...),
			Outputs:    []string{b.layout.MultiQCReport()},
			Dirs:       []string{dir},
			SkipDetail: status.DetailReportExists,
		}, nil
	}

	return Task{}, fmt.Errorf("no command defined for step %s", step.Name)
}
