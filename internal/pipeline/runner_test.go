package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcpipe/internal/runlog"
	"qcpipe/internal/status"
	"qcpipe/internal/tools"
)

func newTestTask(dir string) Task {
	out := filepath.Join(dir, "qc")
	return Task{
		Step:       Step{Name: "fastqc_raw", Tool: "fastqc"},
		Sample:     "A",
		Command:    tools.Command{Tool: "fastqc", Path: "fastqc", Args: []string{"--outdir", out, "A_R1.fq"}},
		Outputs:    []string{filepath.Join(out, "A_R1_fastqc.zip")},
		Dirs:       []string{out},
		SkipDetail: status.DetailOutputsExist,
	}
}

func newTestRunner(t *testing.T, mock tools.Executor, dryRun bool) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	log := runlog.New(filepath.Join(dir, "logs", "pipeline.log"))
	r := NewRunner(log, mock, dryRun)

	tick := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return r, dir
}

func TestRunner_RunTask_OK(t *testing.T) {
	mock := &tools.MockExecutor{Handler: func(cmd tools.Command, out io.Writer) (int, error) {
		fmt.Fprintln(out, "Analysis complete for A_R1.fq")
		return 0, nil
	}}
	r, dir := newTestRunner(t, mock, false)
	task := newTestTask(dir)

	result := r.RunTask(context.Background(), task)

	assert.Equal(t, status.StatusOK, result.Status)
	assert.Empty(t, result.Detail)
	assert.Equal(t, "A", result.Sample)
	assert.Equal(t, "fastqc_raw", result.Step)
	assert.Equal(t, task.Command.String(), result.Command)
	assert.Equal(t, time.Second, result.Duration)
	assert.DirExists(t, task.Dirs[0])
	require.Len(t, mock.Calls, 1)

	logData, err := os.ReadFile(filepath.Join(dir, "logs", "pipeline.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "Analysis complete for A_R1.fq")
}

func TestRunner_RunTask_SkipsWhenOutputsExist(t *testing.T) {
	mock := &tools.MockExecutor{}
	r, dir := newTestRunner(t, mock, false)
	task := newTestTask(dir)

	require.NoError(t, os.MkdirAll(task.Dirs[0], 0755))
	require.NoError(t, os.WriteFile(task.Outputs[0], []byte("PK"), 0644))

	result := r.RunTask(context.Background(), task)

	assert.Equal(t, status.StatusSkip, result.Status)
	assert.Equal(t, "outputs exist", result.Detail)
	assert.Empty(t, result.Command)
	assert.Empty(t, mock.Calls)
}

func TestRunner_RunTask_Failures(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(cmd tools.Command, out io.Writer) (int, error)
		wantDetail string
	}{
		{
			name: "non-zero exit",
			handler: func(cmd tools.Command, out io.Writer) (int, error) {
				return 3, nil
			},
			wantDetail: "exit status 3",
		},
		{
			name: "start failure",
			handler: func(cmd tools.Command, out io.Writer) (int, error) {
				return -1, errors.New("error starting fastqc: permission denied")
			},
			wantDetail: "error starting fastqc: permission denied",
		},
		{
			name: "interrupted",
			handler: func(cmd tools.Command, out io.Writer) (int, error) {
				return -1, fmt.Errorf("fastqc interrupted: %w", context.Canceled)
			},
			wantDetail: "interrupted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, dir := newTestRunner(t, &tools.MockExecutor{Handler: tt.handler}, false)

			result := r.RunTask(context.Background(), newTestTask(dir))

			assert.Equal(t, status.StatusFail, result.Status)
			assert.Equal(t, tt.wantDetail, result.Detail)
			assert.True(t, result.Failed())
		})
	}
}

func TestRunner_RunTask_DryRun(t *testing.T) {
	mock := &tools.MockExecutor{}
	r, dir := newTestRunner(t, mock, true)

	result := r.RunTask(context.Background(), newTestTask(dir))

	assert.Equal(t, status.StatusOK, result.Status)
	assert.Equal(t, "dry-run", result.Detail)
	assert.Empty(t, mock.Calls)

	logData, err := os.ReadFile(filepath.Join(dir, "logs", "pipeline.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), runlog.DryRunNote)
}

func TestRunner_RunTask_MkdirFailure(t *testing.T) {
	mock := &tools.MockExecutor{}
	r, dir := newTestRunner(t, mock, false)
	task := newTestTask(dir)

	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	task.Dirs = []string{filepath.Join(blocker, "qc")}

	result := r.RunTask(context.Background(), task)

	assert.Equal(t, status.StatusFail, result.Status)
	assert.Contains(t, result.Detail, "cannot create output directory")
	assert.Empty(t, mock.Calls)
}
