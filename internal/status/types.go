// Package status records the outcome of a pipeline run.
//
// Every step invocation produces one [StepResult]. At the end of a run the
// results, tool versions and summary counts are persisted as a [RunStatus]
// in logs/run_status.yaml so that later commands can report on the last run
// without re-reading the log.
package status

import "time"

// Status is the outcome of a single step for a single sample.
type Status string

// Step outcomes.
const (
	StatusOK   Status = "OK"
	StatusSkip Status = "SKIP"
	StatusFail Status = "FAIL"
)

// IsValid reports whether s is one of the known outcomes.
func (s Status) IsValid() bool {
	switch s {
	case StatusOK, StatusSkip, StatusFail:
		return true
	}
	return false
}

// Severity orders outcomes from best to worst: OK < SKIP < FAIL.
// Unknown values rank below OK.
func (s Status) Severity() int {
	switch s {
	case StatusOK:
		return 1
	case StatusSkip:
		return 2
	case StatusFail:
		return 3
	}
	return 0
}

// AggregateSample is the sample name recorded for steps that run once over
// the whole output directory.
const AggregateSample = "ALL"

// Common result details.
const (
	DetailOutputsExist = "outputs exist"
	DetailReportExists = "report exists"
	DetailNoTrimmed    = "no trimmed reads"
	DetailDryRun       = "dry-run"
	DetailInterrupted  = "interrupted"
)

// StepResult is the outcome of one step for one sample.
type StepResult struct {
	Sample   string        `yaml:"sample"`
	Step     string        `yaml:"step"`
	Status   Status        `yaml:"status"`
	Detail   string        `yaml:"detail,omitempty"`
	Command  string        `yaml:"command,omitempty"`
	Duration time.Duration `yaml:"duration"`
}

// Failed reports whether the step failed.
func (r StepResult) Failed() bool {
	return r.Status == StatusFail
}

// Summary counts results by outcome.
type Summary struct {
	OK   int `yaml:"ok"`
	Skip int `yaml:"skip"`
	Fail int `yaml:"fail"`
}

// Total returns the number of counted results.
func (s Summary) Total() int {
	return s.OK + s.Skip + s.Fail
}

// Summarize counts results by outcome.
func Summarize(results []StepResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			s.OK++
		case StatusSkip:
			s.Skip++
		case StatusFail:
			s.Fail++
		}
	}
	return s
}

// Failures returns the failed results in their original order.
func Failures(results []StepResult) []StepResult {
	var failed []StepResult
	for _, r := range results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// WorstByStep returns, for every step that has at least one result, the
// most severe outcome recorded for it.
func WorstByStep(results []StepResult) map[string]Status {
	worst := make(map[string]Status)
	for _, r := range results {
		if cur, ok := worst[r.Step]; !ok || r.Status.Severity() > cur.Severity() {
			worst[r.Step] = r.Status
		}
	}
	return worst
}

// RunStatus is the persisted record of a pipeline run.
type RunStatus struct {
	RunID        string            `yaml:"run_id"`
	StartedAt    time.Time         `yaml:"started_at"`
	FinishedAt   time.Time         `yaml:"finished_at"`
	DryRun       bool              `yaml:"dry_run"`
	Outdir       string            `yaml:"outdir"`
	Samples      []string          `yaml:"samples"`
	ToolVersions map[string]string `yaml:"tool_versions"`
	Results      []StepResult      `yaml:"results"`
	Summary      Summary           `yaml:"summary"`
}

// Succeeded reports whether no step failed.
func (r *RunStatus) Succeeded() bool {
	return r.Summary.Fail == 0
}
