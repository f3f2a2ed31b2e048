package tools

import (
	"bytes"
	"context"
	"strings"
	"time"
)

// UnknownVersion is reported when no version could be captured.
const UnknownVersion = "unknown"

// maxVersionLength caps the version line kept for the report.
const maxVersionLength = 200

// versionTimeout bounds each probe so a tool that ignores the flag and waits
// for input cannot stall the run.
const versionTimeout = 30 * time.Second

// versionArgs are tried in order; tools disagree on the spelling.
var versionArgs = [][]string{
	{"--version"},
	{"-v"},
	{"version"},
}

// VersionRecorder receives the full output of a successful version probe,
// typically to append it to the run log.
type VersionRecorder interface {
	RecordVersion(cmd Command, output string) error
}

// Prober captures tool version strings.
//
// Probing is best-effort: any failure degrades to [UnknownVersion] and is
// never returned as an error.
type Prober struct {
	executor Executor
	recorder VersionRecorder
}

// NewProber creates a [Prober]. The recorder may be nil.
func NewProber(executor Executor, recorder VersionRecorder) *Prober {
	return &Prober{executor: executor, recorder: recorder}
}

// Version runs the executable with each version flag in turn and returns the
// first line of the first non-empty output, whatever the exit code.
func (p *Prober) Version(ctx context.Context, tool, path string) string {
	for _, args := range versionArgs {
		cmd := Command{Tool: tool, Path: path, Args: args}

		out, ok := p.probe(ctx, cmd)
		if !ok {
			continue
		}

		if p.recorder != nil {
			_ = p.recorder.RecordVersion(cmd, out)
		}
		return FirstLine(out, maxVersionLength)
	}
	return UnknownVersion
}

func (p *Prober) probe(ctx context.Context, cmd Command) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	var buf bytes.Buffer
	if _, err := p.executor.Execute(ctx, cmd, &buf); err != nil {
		return "", false
	}

	out := strings.TrimSpace(buf.String())
	return out, out != ""
}

// FirstLine returns the first line of s, trimmed and cut to at most max bytes.
func FirstLine(s string, max int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if len(s) > max {
		s = s[:max]
	}
	return s
}
