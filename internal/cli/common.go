package cli

import (
	"fmt"

	"qcpipe/internal/config"
	"qcpipe/internal/pipeline"
	"qcpipe/internal/samples"
)

// loadSamples reads the sample sheet, applies limit and validates the input
// files. FASTQ records are peeked when inputs.check_fastq is set.
func loadSamples(cfg *config.Config, limit int) ([]samples.Sample, error) {
	list, err := samples.ReadFromFile(cfg.SamplesTSV)
	if err != nil {
		return nil, err
	}
	list = samples.Limit(list, limit)

	if err := samples.ValidateInputs(list); err != nil {
		return nil, err
	}
	if cfg.Inputs.CheckFASTQ {
		if err := samples.CheckFASTQ(list, cfg.Inputs.PeekReads); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// resolveTools looks up every tool used by an enabled step. With lenient
// set, unresolved tools fall back to their configured command and are
// returned in missing instead of failing.
func (app *App) resolveTools(plan *pipeline.Plan, lenient bool) (paths map[string]string, missing []error, err error) {
	paths = make(map[string]string)
	for _, tool := range plan.Tools(app.Config.Steps) {
		command := app.Config.Tools.Command(tool)
		path, resolveErr := app.Resolver.Resolve(tool, command)
		if resolveErr != nil {
			if !lenient {
				return nil, nil, resolveErr
			}
			missing = append(missing, resolveErr)
			path = command
		}
		paths[tool] = path
	}
	return paths, missing, nil
}

func validateLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("--limit must be 0 (all samples) or positive, got %d", limit)
	}
	return nil
}
