package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"qcpipe/internal/layout"
	"qcpipe/internal/output"
	"qcpipe/internal/status"
)

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the result of the last run",
		Long: `Read logs/run_status.yaml under the output directory and print the last
run's tool versions, step results and summary.

The exit status mirrors the run: 2 when a step failed, 0 otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadConfig(); err != nil {
				return err
			}

			l := layout.New(app.Config.Outdir)
			run, err := status.NewReader(l.Status()).Read()
			if err != nil {
				return err
			}

			mode := "normal"
			if run.DryRun {
				mode = "dry-run"
			}
			app.Printer.Banner("LAST QC RUN",
				output.Field{Label: "Run", Value: run.RunID},
				output.Field{Label: "Started", Value: run.StartedAt.Format(time.RFC3339)},
				output.Field{Label: "Finished", Value: run.FinishedAt.Format(time.RFC3339)},
				output.Field{Label: "Mode", Value: mode},
				output.Field{Label: "Samples", Value: fmt.Sprint(len(run.Samples))},
			)

			tools := make([]string, 0, len(run.ToolVersions))
			for tool := range run.ToolVersions {
				tools = append(tools, tool)
			}
			sort.Strings(tools)
			versionRows := make([][]string, len(tools))
			for i, tool := range tools {
				versionRows[i] = []string{tool, run.ToolVersions[tool]}
			}
			app.Printer.Table([]string{"tool", "version"}, versionRows)

			resultRows := make([][]string, len(run.Results))
			for i, r := range run.Results {
				resultRows[i] = []string{r.Sample, r.Step, string(r.Status), r.Detail}
			}
			app.Printer.Table([]string{"sample", "step", "status", "detail"}, resultRows)

			app.Printer.Summary(run.Summary, run.FinishedAt.Sub(run.StartedAt))
			app.Printer.Failures(run.Results)

			if !run.Succeeded() {
				return NewExitError(ExitStepFailed)
			}
			return nil
		},
	}
}
