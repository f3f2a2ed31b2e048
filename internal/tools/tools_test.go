package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "''"},
		{in: "--threads", want: "--threads"},
		{in: "results/01_fastqc_raw", want: "results/01_fastqc_raw"},
		{in: "my reads.fq", want: "'my reads.fq'"},
		{in: "a;b", want: "'a;b'"},
		{in: "it's", want: `'it'"'"'s'`},
		{in: "tab\there", want: "'tab\there'"},
		{in: "no\u00a0break", want: "'no\u00a0break'"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestCommand_String(t *testing.T) {
	cmd := Command{
		Tool: "fastqc",
		Path: "/usr/bin/fastqc",
		Args: []string{"--outdir", "out dir", "A_R1.fq"},
	}

	assert.Equal(t, []string{"/usr/bin/fastqc", "--outdir", "out dir", "A_R1.fq"}, cmd.Argv())
	assert.Equal(t, "/usr/bin/fastqc --outdir 'out dir' A_R1.fq", cmd.String())
}

func TestResolver_Resolve(t *testing.T) {
	lookPath := func(file string) (string, error) {
		if file == "fastqc" {
			return "/opt/bin/fastqc", nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
	r := NewResolverWithLookPath(lookPath)

	path, err := r.Resolve("fastqc", "fastqc")
	require.NoError(t, err)
	assert.Equal(t, "/opt/bin/fastqc", path)

	_, err = r.Resolve("multiqc", "multiqc-custom")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolNotFound)
	assert.Contains(t, err.Error(), "tools.multiqc")
	assert.Contains(t, err.Error(), `"multiqc-custom"`)
}

type recordedVersion struct {
	cmd    Command
	output string
}

type mockRecorder struct {
	records []recordedVersion
}

func (m *mockRecorder) RecordVersion(cmd Command, output string) error {
	m.records = append(m.records, recordedVersion{cmd: cmd, output: output})
	return nil
}

func TestProber_Version(t *testing.T) {
	tests := []struct {
		name      string
		handler   func(cmd Command, out io.Writer) (int, error)
		want      string
		wantCalls int
	}{
		{
			name: "first flag works",
			handler: func(cmd Command, out io.Writer) (int, error) {
				fmt.Fprint(out, "FastQC v0.12.1\n")
				return 0, nil
			},
			want:      "FastQC v0.12.1",
			wantCalls: 1,
		},
		{
			name: "falls back to later flag",
			handler: func(cmd Command, out io.Writer) (int, error) {
				if cmd.Args[0] == "version" {
					fmt.Fprint(out, "\n  tool 2.0 \nbuild abc\n")
					return 0, nil
				}
				return 2, nil
			},
			want:      "tool 2.0",
			wantCalls: 3,
		},
		{
			name: "non-zero exit with output still counts",
			handler: func(cmd Command, out io.Writer) (int, error) {
				fmt.Fprint(out, "MultiQC, version 1.21\n")
				return 1, nil
			},
			want:      "MultiQC, version 1.21",
			wantCalls: 1,
		},
		{
			name: "empty output is not a version",
			handler: func(cmd Command, out io.Writer) (int, error) {
				return 0, nil
			},
			want:      UnknownVersion,
			wantCalls: 3,
		},
		{
			name: "start failures degrade to unknown",
			handler: func(cmd Command, out io.Writer) (int, error) {
				return -1, errors.New("exec format error")
			},
			want:      UnknownVersion,
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockExecutor{Handler: tt.handler}
			rec := &mockRecorder{}

			got := NewProber(mock, rec).Version(context.Background(), "fastqc", "/bin/fastqc")

			assert.Equal(t, tt.want, got)
			assert.Len(t, mock.Calls, tt.wantCalls)
			if tt.want == UnknownVersion {
				assert.Empty(t, rec.records)
			} else {
				require.Len(t, rec.records, 1)
				assert.Contains(t, rec.records[0].output, tt.want)
			}
		})
	}
}

func TestProber_NilRecorder(t *testing.T) {
	mock := &MockExecutor{Handler: func(cmd Command, out io.Writer) (int, error) {
		fmt.Fprint(out, "fastp 0.23.4")
		return 0, nil
	}}

	assert.Equal(t, "fastp 0.23.4", NewProber(mock, nil).Version(context.Background(), "fastp", "fastp"))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "a", FirstLine("a\nb", 10))
	assert.Equal(t, "abc", FirstLine("  abcdef  ", 3))
	assert.Equal(t, "", FirstLine("\n\n", 3))
}

func TestMockExecutor_CallsFor(t *testing.T) {
	mock := &MockExecutor{}
	ctx := context.Background()

	_, _ = mock.Execute(ctx, Command{Tool: "fastqc"}, io.Discard)
	_, _ = mock.Execute(ctx, Command{Tool: "fastp"}, io.Discard)
	_, _ = mock.Execute(ctx, Command{Tool: "fastqc"}, io.Discard)

	assert.Len(t, mock.CallsFor("fastqc"), 2)
	assert.Len(t, mock.CallsFor("fastp"), 1)
	assert.Empty(t, mock.CallsFor("multiqc"))
}

// writeScript creates an executable shell script for ProcessExecutor tests.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}

	path := filepath.Join(t.TempDir(), "tool.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestProcessExecutor_Execute(t *testing.T) {
	e := NewProcessExecutor()
	ctx := context.Background()

	t.Run("success captures both streams", func(t *testing.T) {
		script := writeScript(t, `echo "out $1"; echo "err" >&2`)
		var buf bytes.Buffer

		code, err := e.Execute(ctx, Command{Tool: "t", Path: script, Args: []string{"x"}}, &buf)

		require.NoError(t, err)
		assert.Equal(t, 0, code)
		assert.Contains(t, buf.String(), "out x")
		assert.Contains(t, buf.String(), "err")
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		script := writeScript(t, "exit 3")

		code, err := e.Execute(ctx, Command{Tool: "t", Path: script}, io.Discard)

		require.NoError(t, err)
		assert.Equal(t, 3, code)
	})

	t.Run("missing executable is an error", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "absent")

		_, err := e.Execute(ctx, Command{Tool: "absent", Path: missing}, io.Discard)

		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "error starting absent"))
	})

	t.Run("cancelled context", func(t *testing.T) {
		script := writeScript(t, "sleep 5")
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := e.Execute(cctx, Command{Tool: "t", Path: script}, io.Discard)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
