// Package layout names every file and directory the pipeline produces.
//
// All paths are derived from the root output directory:
//
//	<outdir>/
//	  01_fastqc_raw/            FastQC on raw reads
//	  02_trim_fastp/<sample>/   fastp trimmed reads and reports
//	  03_fastqc_trimmed/        FastQC on trimmed reads
//	  04_multiqc/               MultiQC aggregate report
//	  logs/pipeline.log         run log
//	  logs/run_status.yaml      machine-readable run status
//	  logs/pipeline.dot         step graph coloured by outcome
//	  QC_REPORT.md              status report
package layout

import (
	"path/filepath"
	"strings"
)

// Directory and file names under the output root.
const (
	RawQCDir        = "01_fastqc_raw"
	TrimDir         = "02_trim_fastp"
	TrimmedQCDir    = "03_fastqc_trimmed"
	MultiQCDir      = "04_multiqc"
	LogsDir         = "logs"
	LogFile         = "pipeline.log"
	StatusFile      = "run_status.yaml"
	DotFile         = "pipeline.dot"
	ReportFile      = "QC_REPORT.md"
	MultiQCHTML     = "multiqc_report.html"
	fastqcZipSuffix = "_fastqc.zip"
)

// Layout resolves output paths under a root directory.
type Layout struct {
	Root string
}

// New creates a [Layout] rooted at outdir.
func New(outdir string) Layout {
	return Layout{Root: outdir}
}

// RawQC returns the raw-read FastQC directory.
func (l Layout) RawQC() string { return filepath.Join(l.Root, RawQCDir) }

// Trim returns the fastp output directory for a sample.
func (l Layout) Trim(sample string) string { return filepath.Join(l.Root, TrimDir, sample) }

// TrimmedQC returns the trimmed-read FastQC directory.
func (l Layout) TrimmedQC() string { return filepath.Join(l.Root, TrimmedQCDir) }

// MultiQC returns the MultiQC output directory.
func (l Layout) MultiQC() string { return filepath.Join(l.Root, MultiQCDir) }

// MultiQCReport returns the MultiQC HTML report path.
func (l Layout) MultiQCReport() string { return filepath.Join(l.MultiQC(), MultiQCHTML) }

// Logs returns the log directory.
func (l Layout) Logs() string { return filepath.Join(l.Root, LogsDir) }

// Log returns the run log path.
func (l Layout) Log() string { return filepath.Join(l.Logs(), LogFile) }

// Status returns the run status file path.
func (l Layout) Status() string { return filepath.Join(l.Logs(), StatusFile) }

// Dot returns the step graph path.
func (l Layout) Dot() string { return filepath.Join(l.Logs(), DotFile) }

// Report returns the status report path.
func (l Layout) Report() string { return filepath.Join(l.Root, ReportFile) }

// TrimOutputs are the files fastp writes for one sample.
type TrimOutputs struct {
	R1   string
	R2   string
	JSON string
	HTML string
}

// All returns the outputs in a fixed order.
func (t TrimOutputs) All() []string {
	return []string{t.R1, t.R2, t.JSON, t.HTML}
}

// TrimOutputs returns the fastp outputs for a sample.
func (l Layout) TrimOutputs(sample string) TrimOutputs {
	dir := l.Trim(sample)
	return TrimOutputs{
		R1:   filepath.Join(dir, sample+"_R1.trim.fq.gz"),
		R2:   filepath.Join(dir, sample+"_R2.trim.fq.gz"),
		JSON: filepath.Join(dir, sample+".fastp.json"),
		HTML: filepath.Join(dir, sample+".fastp.html"),
	}
}

// FastQCZip returns the zip archive FastQC writes into dir for input.
func FastQCZip(dir, input string) string {
	return filepath.Join(dir, FastQCStem(input)+fastqcZipSuffix)
}

// compressionSuffixes and formatSuffixes are stripped by FastQC, in that
// order, when naming its outputs.
var (
	compressionSuffixes = []string{".gz", ".bz2"}
	formatSuffixes      = []string{".fastq", ".fq", ".txt", ".sam", ".bam"}
)

// FastQCStem returns the name FastQC derives from an input file: the base
// name without one compression suffix and then one format suffix.
// "A_R1.fastq.gz" becomes "A_R1"; "A_R1.trim.fq.gz" becomes "A_R1.trim".
func FastQCStem(input string) string {
	name := filepath.Base(input)
	name = trimAnySuffix(name, compressionSuffixes)
	return trimAnySuffix(name, formatSuffixes)
}

func trimAnySuffix(s string, suffixes []string) string {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) && len(s) > len(suf) {
			return strings.TrimSuffix(s, suf)
		}
	}
	return s
}
