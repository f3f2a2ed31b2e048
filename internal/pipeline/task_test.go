package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcpipe/internal/config"
	"qcpipe/internal/samples"
)

var sampleA = samples.Sample{Name: "A", FQ1: "data/A_R1.fastq.gz", FQ2: "data/A_R2.fastq.gz"}

func newBuilder(mutate func(cfg *config.Config)) *TaskBuilder {
	cfg := config.DefaultConfig()
	cfg.Outdir = "out"
	cfg.Threads = 8
	if mutate != nil {
		mutate(cfg)
	}
	return NewTaskBuilder(cfg, map[string]string{"fastqc": "/opt/fastqc/fastqc"})
}

func stepByName(t *testing.T, name string) Step {
	t.Helper()
	p, err := NewPlan(DefaultSteps())
	require.NoError(t, err)
	s, ok := p.Step(name)
	require.True(t, ok)
	return s
}

func TestTaskBuilder_FastQCRaw(t *testing.T) {
	task, err := newBuilder(nil).Build(stepByName(t, "fastqc_raw"), sampleA)
	require.NoError(t, err)

	dir := filepath.Join("out", "01_fastqc_raw")
	assert.Equal(t, "A", task.Sample)
	assert.Equal(t, "/opt/fastqc/fastqc", task.Command.Path)
	assert.Equal(t, []string{"--threads", "8", "--outdir", dir, "data/A_R1.fastq.gz", "data/A_R2.fastq.gz"}, task.Command.Args)
	assert.Equal(t, []string{filepath.Join(dir, "A_R1_fastqc.zip"), filepath.Join(dir, "A_R2_fastqc.zip")}, task.Outputs)
	assert.Equal(t, []string{dir}, task.Dirs)
	assert.Equal(t, "outputs exist", task.SkipDetail)
}

func TestTaskBuilder_TrimFastp(t *testing.T) {
	b := newBuilder(func(cfg *config.Config) {
		cfg.Fastp.ExtraArgs = "  --detect_adapter_for_pe   --cut_right "
	})

	task, err := b.Build(stepByName(t, "trim_fastp"), sampleA)
	require.NoError(t, err)

	dir := filepath.Join("out", "02_trim_fastp", "A")
	r1 := filepath.Join(dir, "A_R1.trim.fq.gz")
	r2 := filepath.Join(dir, "A_R2.trim.fq.gz")
	json := filepath.Join(dir, "A.fastp.json")
	html := filepath.Join(dir, "A.fastp.html")

	assert.Equal(t, "fastp", task.Command.Path, "unresolved tools fall back to the configured command")
	assert.Equal(t, []string{
		"--in1", "data/A_R1.fastq.gz", "--in2", "data/A_R2.fastq.gz",
		"--out1", r1, "--out2", r2,
		"--json", json, "--html", html,
		"--thread", "8",
		"--detect_adapter_for_pe", "--cut_right",
	}, task.Command.Args)
	assert.Equal(t, []string{r1, r2, json, html}, task.Outputs)
	assert.Equal(t, []string{dir}, task.Dirs)
}

func TestTaskBuilder_FastQCTrimmed(t *testing.T) {
	task, err := newBuilder(nil).Build(stepByName(t, "fastqc_trimmed"), sampleA)
	require.NoError(t, err)

	dir := filepath.Join("out", "03_fastqc_trimmed")
	trimDir := filepath.Join("out", "02_trim_fastp", "A")
	assert.Equal(t, []string{
		"--threads", "8", "--outdir", dir,
		filepath.Join(trimDir, "A_R1.trim.fq.gz"), filepath.Join(trimDir, "A_R2.trim.fq.gz"),
	}, task.Command.Args)
	assert.Equal(t, []string{
		filepath.Join(dir, "A_R1.trim_fastqc.zip"),
		filepath.Join(dir, "A_R2.trim_fastqc.zip"),
	}, task.Outputs)
}

func TestTaskBuilder_MultiQC(t *testing.T) {
	b := newBuilder(func(cfg *config.Config) {
		cfg.MultiQC.ExtraArgs = "--title QC"
	})

	task, err := b.Build(stepByName(t, "multiqc"), samples.Sample{Name: "ignored"})
	require.NoError(t, err)

	dir := filepath.Join("out", "04_multiqc")
	assert.Equal(t, "ALL", task.Sample)
	assert.Equal(t, []string{"out", "--outdir", dir, "--force", "--title", "QC"}, task.Command.Args)
	assert.Equal(t, []string{filepath.Join(dir, "multiqc_report.html")}, task.Outputs)
	assert.Equal(t, "report exists", task.SkipDetail)
}

func TestTaskBuilder_UnknownStep(t *testing.T) {
	_, err := newBuilder(nil).Build(Step{Name: "bwa_mem", Tool: "bwa"}, sampleA)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bwa_mem")
}
