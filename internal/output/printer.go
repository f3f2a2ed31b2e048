// Package output renders pipeline progress and results on the terminal.
//
// [Printer] wraps lipgloss styles around a writer. Use [NewPrinter] for
// stdout and [NewPrinterWithWriter] in tests; colour is only emitted when the
// writer is a terminal that supports it, and can be switched off entirely
// with [Printer.SetColor].
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"qcpipe/internal/status"
)

// Field is a labelled value shown in a banner.
type Field struct {
	Label string
	Value string
}

// Printer writes styled output.
type Printer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	color    bool
}

// NewPrinter creates a [Printer] writing to stdout.
func NewPrinter() *Printer {
	return NewPrinterWithWriter(os.Stdout)
}

// NewPrinterWithWriter creates a [Printer] writing to w.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return &Printer{
		out:      w,
		renderer: lipgloss.NewRenderer(w),
		color:    true,
	}
}

// SetColor enables or disables styling.
func (p *Printer) SetColor(enabled bool) {
	p.color = enabled
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) style() lipgloss.Style {
	if !p.color {
		return lipgloss.NewStyle()
	}
	return p.renderer.NewStyle()
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *Printer) statusStyle(st status.Status) lipgloss.Style {
	switch st {
	case status.StatusOK:
		return p.style().Foreground(lipgloss.Color("2")).Bold(true)
	case status.StatusSkip:
		return p.style().Foreground(lipgloss.Color("8"))
	case status.StatusFail:
		return p.style().Foreground(lipgloss.Color("1")).Bold(true)
	}
	return p.style()
}

// Banner prints a boxed title with labelled fields.
func (p *Printer) Banner(title string, fields ...Field) {
	if !p.color {
		fmt.Fprintf(p.out, "\n=== %s ===\n", title)
		for _, f := range fields {
			fmt.Fprintf(p.out, "%s: %s\n", f.Label, f.Value)
		}
		fmt.Fprintln(p.out)
		return
	}

	var b strings.Builder
	b.WriteString(p.render(p.style().Bold(true), title))
	for _, f := range fields {
		fmt.Fprintf(&b, "\n%s %s", p.render(p.style().Faint(true), f.Label+":"), f.Value)
	}
	box := p.style().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Padding(0, 1)
	fmt.Fprintf(p.out, "\n%s\n\n", box.Render(b.String()))
}

// SampleHeader announces the start of a sample.
func (p *Printer) SampleHeader(index, total int, sample string) {
	label := fmt.Sprintf("--- Sample: %s ---", sample)
	if sample == status.AggregateSample {
		label = "--- Aggregate steps ---"
	} else if total > 0 {
		label = fmt.Sprintf("--- [%d/%d] Sample: %s ---", index, total, sample)
	}
	fmt.Fprintf(p.out, "\n%s\n", p.render(p.style().Bold(true).Foreground(lipgloss.Color("6")), label))
}

// StepResult prints one step outcome.
func (p *Printer) StepResult(r status.StepResult) {
	line := fmt.Sprintf("  %-4s  %-15s", p.render(p.statusStyle(r.Status), string(r.Status)), r.Step)
	if r.Detail != "" {
		line += " " + r.Detail
	}
	if r.Duration > 0 {
		line += " " + p.render(p.style().Faint(true), "("+r.Duration.Round(time.Millisecond).String()+")")
	}
	fmt.Fprintln(p.out, strings.TrimRight(line, " "))
}

// Summary prints the outcome counts and total duration.
func (p *Printer) Summary(s status.Summary, elapsed time.Duration) {
	title := "QC PIPELINE COMPLETE"
	if s.Fail > 0 {
		title = "QC PIPELINE FINISHED WITH FAILURES"
	}
	p.Banner(title,
		Field{Label: "OK", Value: fmt.Sprint(s.OK)},
		Field{Label: "Skipped", Value: fmt.Sprint(s.Skip)},
		Field{Label: "Failed", Value: fmt.Sprint(s.Fail)},
		Field{Label: "Duration", Value: elapsed.Round(time.Millisecond).String()},
	)
}

// Failures lists failed results, if any.
func (p *Printer) Failures(results []status.StepResult) {
	failed := status.Failures(results)
	if len(failed) == 0 {
		return
	}
	fmt.Fprintln(p.out, p.render(p.statusStyle(status.StatusFail), "Failures (must fix):"))
	for _, r := range failed {
		fmt.Fprintf(p.out, "  - %s / %s: %s\n", r.Sample, r.Step, r.Detail)
	}
}

// Table prints rows under headers.
func (p *Printer) Table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	if p.color {
		header := p.style().Bold(true).Padding(0, 1)
		cell := p.style().Padding(0, 1)
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	} else {
		cell := lipgloss.NewStyle().Padding(0, 1)
		t = t.StyleFunc(func(row, col int) lipgloss.Style { return cell })
	}
	fmt.Fprintln(p.out, t.String())
}

// Info prints a plain line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Warning prints a highlighted warning line.
func (p *Printer) Warning(format string, args ...any) {
	prefix := p.render(p.style().Foreground(lipgloss.Color("3")).Bold(true), "WARNING:")
	fmt.Fprintf(p.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Path prints a labelled file location.
func (p *Printer) Path(label, path string) {
	fmt.Fprintf(p.out, "%s %s\n", label+":", p.render(p.style().Underline(true), path))
}
