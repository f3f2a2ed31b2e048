// Package report writes the human-readable outputs of a run: the Markdown
// status report and a DOT rendering of the step graph.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"qcpipe/internal/layout"
	"qcpipe/internal/status"
)

// TimestampFormat is the layout of the generation time in the report.
const TimestampFormat = "2006-01-02T15:04:05"

// StepFlag is a step name with its enable flag.
type StepFlag struct {
	Name    string
	Enabled bool
}

const markdownTemplate = `# RNA-seq QC Report

- Generated: {{.Generated}}
- Run ID: {{.Run.RunID}}
- Samples: {{len .Run.Samples}}
- Outdir: ` + "`{{.Layout.Root}}`" + `
{{- if .Run.DryRun}}
- Mode: dry run (no commands executed)
{{- end}}

## Tool Versions
{{range $tool, $version := .Run.ToolVersions}}
- **{{$tool}}**: {{$version}}
{{- end}}

## Steps Enabled
{{range .Steps}}
- {{.Name}}: {{.Enabled}}
{{- end}}

## Key Outputs

- Raw FastQC: ` + "`{{.Layout.RawQC}}`" + `
- fastp trimmed reads: ` + "`{{.TrimRoot}}`" + `
- Trimmed FastQC: ` + "`{{.Layout.TrimmedQC}}`" + `
- MultiQC: ` + "`{{.Layout.MultiQCReport}}`" + `
- Run log: ` + "`{{.Layout.Log}}`" + `

## Run Summary

- OK: {{.Run.Summary.OK}}
- Skipped: {{.Run.Summary.Skip}}
- Failed: {{.Run.Summary.Fail}}
{{- if .Failures}}

## Failures (must fix)
{{range .Failures}}
- **{{.Sample}}** / {{.Step}}: {{.Detail}}
{{- end}}
{{- end}}

## Interpretation Notes

- Open ` + "`04_multiqc/multiqc_report.html`" + ` and scan for outliers.
- If trimming removes a large fraction of reads, investigate adapter/quality issues.
- If one sample is a severe outlier across metrics, confirm sample identity / contamination.
`

var markdown = template.Must(template.New("report").Parse(markdownTemplate))

type markdownData struct {
	Generated string
	Run       *status.RunStatus
	Steps     []StepFlag
	Layout    layout.Layout
	TrimRoot  string
	Failures  []status.StepResult
}

// Writer writes report files under an output layout.
type Writer struct {
	layout layout.Layout
	now    func() time.Time
}

// NewWriter creates a [Writer] for the given layout.
func NewWriter(l layout.Layout) *Writer {
	return &Writer{layout: l, now: time.Now}
}

// RenderMarkdown writes the Markdown report for run to w.
func (w *Writer) RenderMarkdown(out io.Writer, run *status.RunStatus, steps []StepFlag) error {
	data := markdownData{
		Generated: w.now().Format(TimestampFormat),
		Run:       run,
		Steps:     steps,
		Layout:    w.layout,
		TrimRoot:  filepath.Join(w.layout.Root, layout.TrimDir),
		Failures:  status.Failures(run.Results),
	}
	if err := markdown.Execute(out, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// WriteMarkdown writes QC_REPORT.md and returns its path.
func (w *Writer) WriteMarkdown(run *status.RunStatus, steps []StepFlag) (string, error) {
	path := w.layout.Report()
	if err := writeFile(path, func(out io.Writer) error {
		return w.RenderMarkdown(out, run, steps)
	}); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(path string, render func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	renderErr := render(f)
	if err := f.Close(); err != nil && renderErr == nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return renderErr
}
