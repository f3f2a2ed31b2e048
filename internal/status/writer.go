package status

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Writer persists [RunStatus] records.
type Writer struct {
	path string
}

// NewWriter creates a new [Writer] for the status file at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Write stores run, replacing any previous record. The summary is
// recomputed from the results before writing.
func (w *Writer) Write(run *RunStatus) error {
	run.Summary = Summarize(run.Results)
	for _, r := range run.Results {
		if !r.Status.IsValid() {
			return fmt.Errorf("invalid status %q for %s/%s", r.Status, r.Sample, r.Step)
		}
	}

	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run status: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("failed to write run status: %w", err)
	}

	// Write to temp, then rename
	tmpPath := w.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write run status: %w", err)
	}

	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write run status: %w", err)
	}

	return nil
}
