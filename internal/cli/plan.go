package cli

import (
	"github.com/spf13/cobra"

	"qcpipe/internal/pipeline"
)

func newPlanCommand(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a run would do",
		Long: `Show, for every sample, each enabled step with the action a run would take
(run or skip) and the command it would execute.

Nothing is executed, logged or created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadConfig(); err != nil {
				return err
			}

			if err := validateLimit(limit); err != nil {
				return err
			}

			plan, err := pipeline.NewPlan(pipeline.DefaultSteps())
			if err != nil {
				return err
			}

			list, err := loadSamples(app.Config, limit)
			if err != nil {
				return err
			}

			paths, missing, err := app.resolveTools(plan, true)
			if err != nil {
				return err
			}
			for _, m := range missing {
				app.Printer.Warning("%v", m)
			}

			builder := pipeline.NewTaskBuilder(app.Config, paths)
			planned, err := pipeline.NewExecutor(plan, builder, nil, app.Config.Steps).Preview(list)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(planned))
			toRun := 0
			for _, p := range planned {
				command := p.Task.Command.String()
				if p.Action == pipeline.ActionSkip {
					command = ""
				} else {
					toRun++
				}
				rows = append(rows, []string{p.Task.Sample, p.Task.Step.Name, string(p.Action), p.Detail, command})
			}

			app.Printer.Table([]string{"sample", "step", "action", "detail", "command"}, rows)
			app.Printer.Info("%d of %d tasks would run", toRun, len(planned))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "plan only the first N samples (0 = all)")

	return cmd
}
