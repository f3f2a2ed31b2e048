package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"qcpipe/internal/layout"
	"qcpipe/internal/output"
	"qcpipe/internal/pipeline"
	"qcpipe/internal/report"
	"qcpipe/internal/runlog"
	"qcpipe/internal/samples"
	"qcpipe/internal/status"
	"qcpipe/internal/tools"
)

// runOptions are the flags of the run command.
type runOptions struct {
	limit  int
	dryRun bool
}

func newRunCommand(app *App) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the QC pipeline",
		Long: `Run the QC pipeline over every sample in the sample sheet:
  1. fastqc_raw     - FastQC on the raw reads
  2. trim_fastp     - fastp adapter and quality trimming
  3. fastqc_trimmed - FastQC on the trimmed reads
  4. multiqc        - MultiQC over the whole output directory (once)

A failing step abandons the remaining steps of that sample only. The exit
status is 2 when any step failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadConfig(); err != nil {
				return err
			}

			if err := validateLimit(opts.limit); err != nil {
				return err
			}

			run, err := app.runPipeline(cmd.Context(), opts)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					app.Printer.Warning("run interrupted")
					return NewExitError(ExitInterrupted)
				}
				return err
			}

			if !run.Succeeded() {
				return NewExitError(ExitStepFailed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 0, "run only the first N samples (0 = all)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "log commands without executing them")

	return cmd
}

// runPipeline executes a full run and writes the status file and reports.
//
// Configuration and input problems are returned as errors before any step
// runs. Once steps have started, the status file and reports are always
// written, even when the run is interrupted.
func (app *App) runPipeline(ctx context.Context, opts *runOptions) (*status.RunStatus, error) {
	cfg := app.Config
	started := app.now()

	plan, err := pipeline.NewPlan(pipeline.DefaultSteps())
	if err != nil {
		return nil, err
	}

	list, err := loadSamples(cfg, opts.limit)
	if err != nil {
		return nil, err
	}

	paths, missing, err := app.resolveTools(plan, opts.dryRun)
	if err != nil {
		return nil, err
	}
	for _, m := range missing {
		app.Printer.Warning("%v", m)
	}

	l := layout.New(cfg.Outdir)
	log := runlog.New(l.Log())
	runID := uuid.NewString()

	if err := log.Printf("run %s started (samples=%d, dry-run=%t)", runID, len(list), opts.dryRun); err != nil {
		return nil, err
	}

	versions := app.toolVersions(ctx, plan, paths, log, opts.dryRun)

	fields := []output.Field{
		{Label: "Run", Value: runID},
		{Label: "Samples", Value: fmt.Sprintf("%s (%d)", cfg.SamplesTSV, len(list))},
		{Label: "Outdir", Value: cfg.Outdir},
		{Label: "Threads", Value: strconv.Itoa(cfg.Threads)},
	}
	if opts.dryRun {
		fields = append(fields, output.Field{Label: "Mode", Value: "DRY-RUN (no commands executed)"})
	}
	app.Printer.Banner("RUNNING QC PIPELINE", fields...)

	builder := pipeline.NewTaskBuilder(cfg, paths)
	runner := pipeline.NewRunner(log, app.Executor, opts.dryRun)
	executor := pipeline.NewExecutor(plan, builder, runner, cfg.Steps)
	executor.SetProgressCallback(app.Printer.SampleHeader)
	executor.SetResultCallback(app.Printer.StepResult)

	results, execErr := executor.Execute(ctx, list)

	run := &status.RunStatus{
		RunID:        runID,
		StartedAt:    started,
		FinishedAt:   app.now(),
		DryRun:       opts.dryRun,
		Outdir:       cfg.Outdir,
		Samples:      samples.Names(list),
		ToolVersions: versions,
		Results:      results,
	}
	if err := app.writeOutputs(run, plan, l); err != nil {
		return nil, err
	}
	_ = log.Printf("run %s finished: ok=%d skip=%d fail=%d", runID, run.Summary.OK, run.Summary.Skip, run.Summary.Fail)

	app.Printer.Summary(run.Summary, run.FinishedAt.Sub(run.StartedAt))
	app.Printer.Failures(run.Results)
	app.Printer.Path("Report", l.Report())
	app.Printer.Path("Log", l.Log())

	if execErr != nil {
		return run, execErr
	}
	return run, nil
}

// toolVersions probes every resolved tool. Dry runs start no process, so
// their versions read "dry-run".
func (app *App) toolVersions(ctx context.Context, plan *pipeline.Plan, paths map[string]string, log *runlog.Log, dryRun bool) map[string]string {
	versions := map[string]string{"go": runtime.Version()}
	prober := tools.NewProber(app.Executor, log)

	for _, tool := range plan.Tools(app.Config.Steps) {
		if dryRun {
			versions[tool] = status.DetailDryRun
			continue
		}
		versions[tool] = prober.Version(ctx, tool, paths[tool])
	}
	return versions
}

// writeOutputs persists the run status, the Markdown report and the step
// graph.
func (app *App) writeOutputs(run *status.RunStatus, plan *pipeline.Plan, l layout.Layout) error {
	if err := status.NewWriter(l.Status()).Write(run); err != nil {
		return err
	}

	var flags []report.StepFlag
	for _, s := range plan.Steps() {
		flags = append(flags, report.StepFlag{Name: s.Name, Enabled: app.Config.Steps.Enabled(s.Name)})
	}

	w := report.NewWriter(l)
	if _, err := w.WriteMarkdown(run, flags); err != nil {
		return err
	}
	if _, err := w.WriteGraph(plan, run.Results); err != nil {
		return err
	}
	return nil
}
