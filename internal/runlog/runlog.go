// Package runlog writes the pipeline's append-only run log.
//
// The log file is opened in append mode and closed again for every write, so
// a crash leaves every earlier entry on disk and external tools write straight
// into the file. Each command entry looks like:
//
//	[2024-05-01T10:22:03] $ fastqc --threads 4 --outdir results/01_fastqc_raw A_R1.fq.gz A_R2.fq.gz
//	<tool stdout and stderr>
package runlog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qcpipe/internal/tools"
)

// TimestampFormat is the layout of entry timestamps: local time, seconds
// precision, no zone.
const TimestampFormat = "2006-01-02T15:04:05"

// DryRunNote is written instead of tool output when a command is not executed.
const DryRunNote = "[DRY-RUN] Command not executed."

// Log appends entries to a run log file.
type Log struct {
	path string
	now  func() time.Time
}

// New creates a [Log] writing to path. The file and its directory are created
// on first write.
func New(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Append opens the log, calls fn with it and closes it again.
func (l *Log) Append(fn func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open run log: %w", err)
	}

	fnErr := fn(f)
	if err := f.Close(); err != nil && fnErr == nil {
		return fmt.Errorf("failed to close run log: %w", err)
	}
	return fnErr
}

// Printf appends a timestamped free-form line.
func (l *Log) Printf(format string, args ...any) error {
	return l.Append(func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "\n[%s] %s\n", l.timestamp(), fmt.Sprintf(format, args...))
		return err
	})
}

// Run logs cmd and, unless dryRun is set, executes it with its output
// appended to the log. It returns the tool's exit code; a dry run reports 0.
func (l *Log) Run(ctx context.Context, executor tools.Executor, cmd tools.Command, dryRun bool) (int, error) {
	code := 0
	err := l.Append(func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "\n[%s] $ %s\n", l.timestamp(), cmd.String()); err != nil {
			return err
		}

		if dryRun {
			_, err := fmt.Fprintln(w, DryRunNote)
			return err
		}

		var execErr error
		code, execErr = executor.Execute(ctx, cmd, w)
		return execErr
	})
	return code, err
}

// RecordVersion implements [tools.VersionRecorder].
func (l *Log) RecordVersion(cmd tools.Command, output string) error {
	return l.Append(func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "\n[%s] VERSION %s: %s\n%s\n", l.timestamp(), cmd.Path, strings.Join(cmd.Args, " "), output)
		return err
	})
}

func (l *Log) timestamp() string {
	return l.now().Format(TimestampFormat)
}

var _ tools.VersionRecorder = (*Log)(nil)
