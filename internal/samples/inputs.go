package samples

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Sentinel errors for input read files.
var (
	ErrMissingInput = errors.New("missing FASTQ")
	ErrInvalidFASTQ = errors.New("invalid FASTQ")
)

// ValidateInputs checks that both read files of every sample exist and are
// regular files. It stops at the first problem.
func ValidateInputs(samples []Sample) error {
	for _, s := range samples {
		for _, p := range []string{s.FQ1, s.FQ2} {
			info, err := os.Stat(p)
			if err != nil {
				return fmt.Errorf("%w for sample %s: %s", ErrMissingInput, s.Name, p)
			}
			if info.IsDir() {
				return fmt.Errorf("%w for sample %s: %s is a directory", ErrMissingInput, s.Name, p)
			}
		}
	}
	return nil
}

// CheckFASTQ reads up to n records from every input file and verifies they
// are well-formed FASTQ: quality present and as long as the sequence.
// Plain and compressed files are both accepted.
func CheckFASTQ(samples []Sample, n int) error {
	for _, s := range samples {
		for _, p := range []string{s.FQ1, s.FQ2} {
			if err := PeekFASTQ(p, n); err != nil {
				return fmt.Errorf("sample %s: %w", s.Name, err)
			}
		}
	}
	return nil
}

// PeekFASTQ reads up to n records of the file at path and returns the first
// format problem found. An empty file is an error.
func PeekFASTQ(path string, n int) error {
	reader, err := fastx.NewReader(seq.DNAredundant, path, fastx.DefaultIDRegexp)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFASTQ, path, err)
	}
	defer reader.Close()

	for i := 0; i < n; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			if i == 0 {
				return fmt.Errorf("%w: %s: no reads found", ErrInvalidFASTQ, path)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: record %d: %v", ErrInvalidFASTQ, path, i+1, err)
		}

		if len(record.Seq.Qual) == 0 {
			return fmt.Errorf("%w: %s: record %d (%s) has no quality line", ErrInvalidFASTQ, path, i+1, record.ID)
		}
		if len(record.Seq.Qual) != len(record.Seq.Seq) {
			return fmt.Errorf("%w: %s: record %d (%s): sequence length %d, quality length %d",
				ErrInvalidFASTQ, path, i+1, record.ID, len(record.Seq.Seq), len(record.Seq.Qual))
		}
	}
	return nil
}
