package executor

import (
	"bufio"
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanProgressLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "newline separated",
			input: "one\ntwo\nthree\n",
			want:  []string{"one", "two", "three"},
		},
		{
			name:  "carriage return separated",
			input: "Completed 1.0 KiB/2.0 KiB\rCompleted 2.0 KiB/2.0 KiB\r",
			want:  []string{"Completed 1.0 KiB/2.0 KiB", "Completed 2.0 KiB/2.0 KiB"},
		},
		{
			name:  "crlf treated as one terminator",
			input: "one\r\ntwo\r\n",
			want:  []string{"one", "two"},
		},
		{
			name:  "mixed terminators",
			input: "progress\rprogress again\ndone",
			want:  []string{"progress", "progress again", "done"},
		},
		{
			name:  "no trailing terminator",
			input: "tail",
			want:  []string{"tail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := bufio.NewScanner(strings.NewReader(tt.input))
			scanner.Split(scanProgressLines)

			var got []string
			for scanner.Scan() {
				got = append(got, scanner.Text())
			}
			require.NoError(t, scanner.Err())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTailWriter(t *testing.T) {
	w := newTailWriter(8)

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", w.String())

	_, err = w.Write([]byte(" world!"))
	require.NoError(t, err)
	assert.Equal(t, "o world!", w.String())
	assert.Len(t, w.String(), 8)
}

func TestApplyOptions(t *testing.T) {
	options := ApplyOptions(
		WithEnv("A=1", "B=2"),
		WithDir("/tmp"),
		WithStderrTail(16),
	)
	assert.Equal(t, []string{"A=1", "B=2"}, options.Env)
	assert.Equal(t, "/tmp", options.Dir)
	assert.Equal(t, 16, options.StderrTail)

	defaults := ApplyOptions()
	assert.Equal(t, defaultStderrTail, defaults.StderrTail)
	assert.Nil(t, defaults.LineHandler)
}

func TestRunCapturesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	result, err := New().Run(context.Background(), "sh", []string{"-c", "echo out; echo err >&2"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "out\n", result.Stdout)
	assert.Equal(t, "err\n", result.Stderr)
}

func TestRunStreamsLines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	var lines []string
	result, err := New().Run(context.Background(), "sh",
		[]string{"-c", "printf 'a\\nb\\rc\\n'"},
		WithLineHandler(func(line string) {
			lines = append(lines, line)
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
	// Stdout is not captured while streaming
	assert.Empty(t, result.Stdout)
}

func TestRunNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	result, err := New().Run(context.Background(), "sh", []string{"-c", "echo boom >&2; exit 3"})
	require.Error(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "boom\n", result.Stderr)
}

func TestRunMissingProgram(t *testing.T) {
	result, err := New().Run(context.Background(), "definitely-not-a-real-binary-xyz", nil)
	require.Error(t, err)
	assert.Equal(t, -1, result.ExitCode)
}

func TestRunEnvInjection(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	result, err := New().Run(context.Background(), "sh",
		[]string{"-c", "printf '%s' \"$S3PULL_TEST_VAR\""},
		WithEnv("S3PULL_TEST_VAR=injected"),
	)
	require.NoError(t, err)
	assert.Equal(t, "injected", result.Stdout)
}
