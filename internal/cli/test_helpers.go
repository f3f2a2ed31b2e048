package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"qcpipe/internal/config"
	"qcpipe/internal/output"
	"qcpipe/internal/tools"
)

// testFASTQ is a minimal valid FASTQ file.
const testFASTQ = "@r1\nACGT\n+\nIIII\n@r2\nGGCC\n+\nIIII\n"

// testEnv is a workspace with a sample sheet, input reads and an App wired
// to mocks.
type testEnv struct {
	dir    string
	cfg    *config.Config
	mock   *tools.MockExecutor
	out    *bytes.Buffer
	app    *App
	lookUp map[string]bool
}

// newTestEnv creates a workspace with the given samples. Every tool resolves
// to /usr/bin/<tool> unless removed from env.lookUp.
func newTestEnv(t *testing.T, sampleNames ...string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	var sheet strings.Builder
	sheet.WriteString("sample\tfq1\tfq2\n")
	for _, name := range sampleNames {
		fq1 := filepath.Join(dir, "data", name+"_R1.fastq")
		fq2 := filepath.Join(dir, "data", name+"_R2.fastq")
		writeTestFile(t, fq1, testFASTQ)
		writeTestFile(t, fq2, testFASTQ)
		fmt.Fprintf(&sheet, "%s\t%s\t%s\n", name, fq1, fq2)
	}
	sheetPath := filepath.Join(dir, "samples.tsv")
	writeTestFile(t, sheetPath, sheet.String())

	cfg := config.DefaultConfig()
	cfg.SamplesTSV = sheetPath
	cfg.Outdir = filepath.Join(dir, "results")
	cfg.Output.Color = false

	env := &testEnv{
		dir:    dir,
		cfg:    cfg,
		mock:   &tools.MockExecutor{},
		out:    &bytes.Buffer{},
		lookUp: map[string]bool{"fastqc": true, "fastp": true, "multiqc": true},
	}

	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	env.app = &App{
		Config:   cfg,
		Printer:  output.NewPrinterWithWriter(env.out),
		Executor: env.mock,
		Resolver: tools.NewResolverWithLookPath(func(file string) (string, error) {
			if env.lookUp[file] {
				return "/usr/bin/" + file, nil
			}
			return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
		}),
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	}
	return env
}

// run executes the CLI with args against the environment.
func (e *testEnv) run(args ...string) ExecuteResult {
	return RunWithConfig(e.app, args)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
