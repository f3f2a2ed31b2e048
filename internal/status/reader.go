package status

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoRun is returned when no run status has been written yet.
var ErrNoRun = errors.New("no recorded run")

// Reader reads [RunStatus] records.
type Reader struct {
	path string
}

// NewReader creates a new [Reader] for the status file at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Path returns the status file path.
func (r *Reader) Path() string {
	return r.path
}

// Read reads and parses the status file.
//
// A missing file returns an error wrapping [ErrNoRun].
func (r *Reader) Read() (*RunStatus, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", ErrNoRun, r.path)
		}
		return nil, fmt.Errorf("failed to read run status: %w", err)
	}

	var run RunStatus
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to read run status: %w", err)
	}

	return &run, nil
}
