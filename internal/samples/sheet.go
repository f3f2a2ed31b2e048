// Package samples reads and validates the pipeline's sample sheet.
//
// The sample sheet is a tab-separated file with a header row naming at least
// the sample, fq1 and fq2 columns. Column order is free and extra columns are
// ignored:
//
//	sample	fq1	fq2
//	ctrl_1	data/ctrl_1_R1.fastq.gz	data/ctrl_1_R2.fastq.gz
//	treat_1	data/treat_1_R1.fastq.gz	data/treat_1_R2.fastq.gz
//
// Blank lines and lines starting with # are ignored. A gzip-compressed sheet
// is read transparently.
package samples

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shenwei356/xopen"
)

// Sentinel errors for sample sheet problems. Returned errors wrap one of
// these so callers can use errors.Is.
var (
	ErrSheetNotFound   = errors.New("sample sheet not found")
	ErrMissingColumn   = errors.New("sample sheet missing required column")
	ErrMalformedRow    = errors.New("malformed sample sheet row")
	ErrDuplicateSample = errors.New("duplicate sample name")
	ErrNoSamples       = errors.New("sample sheet contains no samples")
)

// Column names recognised in the header row.
const (
	ColumnSample = "sample"
	ColumnFQ1    = "fq1"
	ColumnFQ2    = "fq2"
)

// requiredColumns are the columns that must be present in the header.
var requiredColumns = []string{ColumnSample, ColumnFQ1, ColumnFQ2}

// Sample is one paired-end sample from the sheet.
type Sample struct {
	// Name is the unique sample identifier.
	Name string

	// FQ1 is the path to the R1 reads.
	FQ1 string

	// FQ2 is the path to the R2 reads.
	FQ2 string

	// Line is the sheet line the sample was read from.
	Line int
}

// ReadFromFile reads and parses a sample sheet.
func ReadFromFile(path string) ([]Sample, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat sample sheet: %w", err)
	}

	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample sheet %s: %w", path, err)
	}
	defer r.Close()

	return readFromReader(r)
}

// ReadFromString parses a sample sheet held in memory.
func ReadFromString(data string) ([]Sample, error) {
	return readFromReader(strings.NewReader(data))
}

func readFromReader(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoSamples
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sample sheet header: %w", err)
	}

	colIndex := buildColumnIndex(header)
	if err := validateColumns(colIndex, header); err != nil {
		return nil, err
	}

	var samples []Sample
	seen := make(map[string]int)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read sample sheet: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if isBlank(record) {
			continue
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: line %d: expected %d tab-separated columns, got %d",
				ErrMalformedRow, line, len(header), len(record))
		}

		s := Sample{
			Name: getField(record, colIndex, ColumnSample),
			FQ1:  getField(record, colIndex, ColumnFQ1),
			FQ2:  getField(record, colIndex, ColumnFQ2),
			Line: line,
		}
		if s.Name == "" || s.FQ1 == "" || s.FQ2 == "" {
			return nil, fmt.Errorf("%w: line %d: sample, fq1 and fq2 are required: %q",
				ErrMalformedRow, line, strings.Join(record, "\t"))
		}

		if first, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%w: %s (lines %d and %d)", ErrDuplicateSample, s.Name, first, line)
		}
		seen[s.Name] = line

		samples = append(samples, s)
	}

	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	return samples, nil
}

func buildColumnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.ToLower(col))] = i
	}
	return index
}

func validateColumns(colIndex map[string]int, header []string) error {
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return fmt.Errorf("%w: %s (columns must be tab-separated: sample, fq1, fq2; got %q)",
				ErrMissingColumn, col, strings.Join(header, "\t"))
		}
	}
	return nil
}

func getField(record []string, colIndex map[string]int, column string) string {
	idx, ok := colIndex[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Limit returns the first n samples. n <= 0 means all of them.
func Limit(samples []Sample, n int) []Sample {
	if n <= 0 || n >= len(samples) {
		return samples
	}
	return samples[:n]
}

// Names returns the sample names in sheet order.
func Names(samples []Sample) []string {
	names := make([]string, len(samples))
	for i, s := range samples {
		names[i] = s.Name
	}
	return names
}
