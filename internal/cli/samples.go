package cli

import (
	"github.com/spf13/cobra"
)

func newSamplesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "Validate and list the sample sheet",
		Long: `Load the sample sheet named by samples_tsv, check that every read file
exists (and, with inputs.check_fastq, that it holds well-formed FASTQ
records), then list the samples.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadConfig(); err != nil {
				return err
			}

			list, err := loadSamples(app.Config, 0)
			if err != nil {
				return err
			}

			rows := make([][]string, len(list))
			for i, s := range list {
				rows[i] = []string{s.Name, s.FQ1, s.FQ2}
			}
			app.Printer.Table([]string{"sample", "fq1", "fq2"}, rows)
			app.Printer.Info("%d samples in %s", len(list), app.Config.SamplesTSV)
			return nil
		},
	}
}
