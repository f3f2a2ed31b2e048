package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"qcpipe/internal/status"
)

func newPlainPrinter() (*Printer, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	p := NewPrinterWithWriter(buf)
	p.SetColor(false)
	return p, buf
}

func TestPrinter_Banner(t *testing.T) {
	p, buf := newPlainPrinter()

	p.Banner("RUNNING QC PIPELINE", Field{Label: "Outdir", Value: "results"}, Field{Label: "Threads", Value: "4"})

	assert.Equal(t, "\n=== RUNNING QC PIPELINE ===\nOutdir: results\nThreads: 4\n\n", buf.String())
}

func TestPrinter_Banner_Styled(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinterWithWriter(buf)

	p.Banner("RUNNING QC PIPELINE", Field{Label: "Outdir", Value: "results"})

	out := buf.String()
	assert.Contains(t, out, "RUNNING QC PIPELINE")
	assert.Contains(t, out, "Outdir: results")
	assert.Contains(t, out, "╭", "rounded border expected")
}

func TestPrinter_SampleHeader(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		total  int
		sample string
		want   string
	}{
		{name: "with progress", index: 2, total: 5, sample: "ctrl_1", want: "\n--- [2/5] Sample: ctrl_1 ---\n"},
		{name: "without total", sample: "ctrl_1", want: "\n--- Sample: ctrl_1 ---\n"},
		{name: "aggregate", index: 6, total: 5, sample: "ALL", want: "\n--- Aggregate steps ---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, buf := newPlainPrinter()
			p.SampleHeader(tt.index, tt.total, tt.sample)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinter_StepResult(t *testing.T) {
	p, buf := newPlainPrinter()

	p.StepResult(status.StepResult{Step: "fastqc_raw", Status: status.StatusOK, Duration: 1500 * time.Millisecond})
	p.StepResult(status.StepResult{Step: "trim_fastp", Status: status.StatusFail, Detail: "exit status 1"})
	p.StepResult(status.StepResult{Step: "multiqc", Status: status.StatusSkip, Detail: "report exists"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"  OK    fastqc_raw      (1.5s)",
		"  FAIL  trim_fastp      exit status 1",
		"  SKIP  multiqc         report exists",
	}, lines)
}

func TestPrinter_Summary(t *testing.T) {
	p, buf := newPlainPrinter()
	p.Summary(status.Summary{OK: 5, Skip: 1}, 2*time.Second)
	assert.Contains(t, buf.String(), "QC PIPELINE COMPLETE")
	assert.Contains(t, buf.String(), "Failed: 0")

	p, buf = newPlainPrinter()
	p.Summary(status.Summary{OK: 5, Fail: 2}, time.Second)
	assert.Contains(t, buf.String(), "QC PIPELINE FINISHED WITH FAILURES")
	assert.Contains(t, buf.String(), "Duration: 1s")
}

func TestPrinter_Failures(t *testing.T) {
	p, buf := newPlainPrinter()

	p.Failures([]status.StepResult{{Sample: "A", Step: "fastqc_raw", Status: status.StatusOK}})
	assert.Empty(t, buf.String())

	p.Failures([]status.StepResult{
		{Sample: "A", Step: "fastqc_raw", Status: status.StatusOK},
		{Sample: "B", Step: "trim_fastp", Status: status.StatusFail, Detail: "exit status 255"},
	})
	assert.Equal(t, "Failures (must fix):\n  - B / trim_fastp: exit status 255\n", buf.String())
}

func TestPrinter_Table(t *testing.T) {
	p, buf := newPlainPrinter()

	p.Table([]string{"sample", "fq1"}, [][]string{{"ctrl_1", "a.fq.gz"}, {"treat_1", "b.fq.gz"}})

	out := buf.String()
	for _, want := range []string{"sample", "fq1", "ctrl_1", "treat_1", "b.fq.gz"} {
		assert.Contains(t, out, want)
	}
}

func TestPrinter_WarningAndInfo(t *testing.T) {
	p, buf := newPlainPrinter()

	p.Warning("tool %s not found", "fastp")
	p.Info("Mode: %s", "dry-run")
	p.Path("Report", "results/QC_REPORT.md")

	assert.Equal(t, "WARNING: tool fastp not found\nMode: dry-run\nReport: results/QC_REPORT.md\n", buf.String())
}
