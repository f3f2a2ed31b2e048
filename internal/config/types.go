// Package config provides configuration loading and management for qcpipe.
//
// Configuration is loaded using Viper from a YAML file, with environment
// variable overrides. The package provides defaults that match the layout the
// pipeline expects, so a config file only needs to name what differs.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [ToolsConfig] names the external tool commands
//   - [StepsConfig] holds the per-step enable flags
//
// Configuration priority (highest to lowest):
//  1. Environment variables (QCPIPE_ prefix, dots become underscores,
//     e.g. QCPIPE_TOOLS_FASTQC)
//  2. The config file passed to [Loader.LoadFromFile]
//  3. [DefaultConfig] defaults
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Step names as they appear under the steps: key and in run results.
const (
	StepFastQCRaw     = "fastqc_raw"
	StepTrimFastp     = "trim_fastp"
	StepFastQCTrimmed = "fastqc_trimmed"
	StepMultiQC       = "multiqc"
)

// Tool names as they appear under the tools: key.
const (
	ToolFastQC  = "fastqc"
	ToolFastp   = "fastp"
	ToolMultiQC = "multiqc"
)

// ErrInvalidConfig is wrapped by every error returned from [Config.Validate].
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the root configuration structure.
//
// This is the main configuration container loaded by [Loader] and read by
// every other component. It is never modified after loading.
type Config struct {
	// SamplesTSV is the path to the tab-separated sample sheet.
	// Default: "samples.tsv"
	SamplesTSV string `mapstructure:"samples_tsv"`

	// Outdir is the root output directory. Step directories, logs and the
	// report are created underneath it.
	// Default: "results"
	Outdir string `mapstructure:"outdir"`

	// Threads is passed through to the tools' own parallelism flags.
	// The driver itself is single-threaded.
	// Default: 4
	Threads int `mapstructure:"threads"`

	// Tools contains the command name or path of each external tool.
	Tools ToolsConfig `mapstructure:"tools"`

	// Steps contains the per-step enable flags.
	Steps StepsConfig `mapstructure:"steps"`

	// Fastp holds extra arguments appended to the fastp command line.
	Fastp ExtraArgsConfig `mapstructure:"fastp"`

	// MultiQC holds extra arguments appended to the MultiQC command line.
	MultiQC ExtraArgsConfig `mapstructure:"multiqc"`

	// Inputs controls validation of the input FASTQ files.
	Inputs InputsConfig `mapstructure:"inputs"`

	// Output contains terminal output configuration.
	Output OutputConfig `mapstructure:"output"`
}

// ToolsConfig names the external tool commands.
//
// Each value may be a bare command name looked up on PATH or a path to
// an executable.
type ToolsConfig struct {
	FastQC  string `mapstructure:"fastqc"`
	Fastp   string `mapstructure:"fastp"`
	MultiQC string `mapstructure:"multiqc"`
}

// Command returns the configured command for the named tool, or an empty
// string if the tool is unknown.
func (t ToolsConfig) Command(tool string) string {
	switch tool {
	case ToolFastQC:
		return t.FastQC
	case ToolFastp:
		return t.Fastp
	case ToolMultiQC:
		return t.MultiQC
	}
	return ""
}

// StepsConfig holds the per-step enable flags. All steps are enabled by default.
type StepsConfig struct {
	FastQCRaw     bool `mapstructure:"fastqc_raw"`
	TrimFastp     bool `mapstructure:"trim_fastp"`
	FastQCTrimmed bool `mapstructure:"fastqc_trimmed"`
	MultiQC       bool `mapstructure:"multiqc"`
}

// Enabled reports whether the named step is enabled. Unknown names are
// reported as disabled.
func (s StepsConfig) Enabled(step string) bool {
	switch step {
	case StepFastQCRaw:
		return s.FastQCRaw
	case StepTrimFastp:
		return s.TrimFastp
	case StepFastQCTrimmed:
		return s.FastQCTrimmed
	case StepMultiQC:
		return s.MultiQC
	}
	return false
}

// ExtraArgsConfig holds free-form arguments for a tool.
type ExtraArgsConfig struct {
	// ExtraArgs is split on whitespace and appended to the command line.
	// No shell quoting is interpreted.
	ExtraArgs string `mapstructure:"extra_args"`
}

// Args returns ExtraArgs split into individual arguments.
func (e ExtraArgsConfig) Args() []string {
	return strings.Fields(e.ExtraArgs)
}

// InputsConfig controls validation of the input read files.
type InputsConfig struct {
	// CheckFASTQ enables reading the first records of every input file
	// before the run starts. Missing files are always rejected.
	// Default: false
	CheckFASTQ bool `mapstructure:"check_fastq"`

	// PeekReads is the number of records read per file when CheckFASTQ is set.
	// Default: 100
	PeekReads int `mapstructure:"peek_reads"`
}

// OutputConfig contains terminal output configuration.
type OutputConfig struct {
	// Color enables styled terminal output.
	// Default: true
	Color bool `mapstructure:"color"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
//
// The defaults enable every step and expect the tools to be on PATH under
// their usual names.
func DefaultConfig() *Config {
	return &Config{
		SamplesTSV: "samples.tsv",
		Outdir:     "results",
		Threads:    4,
		Tools: ToolsConfig{
			FastQC:  ToolFastQC,
			Fastp:   ToolFastp,
			MultiQC: ToolMultiQC,
		},
		Steps: StepsConfig{
			FastQCRaw:     true,
			TrimFastp:     true,
			FastQCTrimmed: true,
			MultiQC:       true,
		},
		Inputs: InputsConfig{
			CheckFASTQ: false,
			PeekReads:  100,
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}

// Validate checks that the configuration can drive a run.
//
// Every returned error wraps [ErrInvalidConfig].
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SamplesTSV) == "" {
		return fmt.Errorf("%w: samples_tsv must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Outdir) == "" {
		return fmt.Errorf("%w: outdir must not be empty", ErrInvalidConfig)
	}
	if c.Threads < 1 {
		return fmt.Errorf("%w: threads must be at least 1, got %d", ErrInvalidConfig, c.Threads)
	}
	for _, tool := range []string{ToolFastQC, ToolFastp, ToolMultiQC} {
		if strings.TrimSpace(c.Tools.Command(tool)) == "" {
			return fmt.Errorf("%w: tools.%s must not be empty", ErrInvalidConfig, tool)
		}
	}
	if c.Inputs.CheckFASTQ && c.Inputs.PeekReads < 1 {
		return fmt.Errorf("%w: inputs.peek_reads must be at least 1, got %d", ErrInvalidConfig, c.Inputs.PeekReads)
	}
	return nil
}
