// Package executor runs external commands with output capture, optional
// line streaming, and environment injection at the invocation boundary.
package executor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// defaultStderrTail bounds how much child stderr is retained for error
// reporting.
const defaultStderrTail = 4 * 1024

// Result holds the outcome of a command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts command execution so callers can be tested with a fake.
type Runner interface {
	Run(ctx context.Context, program string, args []string, opts ...Option) (*Result, error)
}

// Options configures a single execution.
type Options struct {
	// Env entries are appended to the inherited environment.
	Env []string

	// Dir is the working directory; empty means inherit.
	Dir string

	// LineHandler receives each stdout line as it arrives. Lines are split
	// on both \n and \r so carriage-return progress output is observed.
	// When set, stdout is not captured into Result.Stdout.
	LineHandler func(line string)

	// StderrWriter receives child stderr in addition to the retained tail.
	StderrWriter io.Writer

	// StderrTail bounds the retained stderr in bytes; 0 means the default.
	StderrTail int
}

// Option mutates Options.
type Option func(*Options)

// WithEnv appends environment entries in KEY=VALUE form
func WithEnv(env ...string) Option {
	return func(o *Options) {
		o.Env = append(o.Env, env...)
	}
}

// WithDir sets the working directory
func WithDir(dir string) Option {
	return func(o *Options) {
		o.Dir = dir
	}
}

// WithLineHandler streams stdout lines to fn
func WithLineHandler(fn func(line string)) Option {
	return func(o *Options) {
		o.LineHandler = fn
	}
}

// WithStderrWriter mirrors child stderr to w
func WithStderrWriter(w io.Writer) Option {
	return func(o *Options) {
		o.StderrWriter = w
	}
}

// WithStderrTail sets the retained stderr size in bytes
func WithStderrTail(n int) Option {
	return func(o *Options) {
		o.StderrTail = n
	}
}

// ApplyOptions folds option functions into a populated Options. Exported so
// fake runners can interpret the same options as the real one.
func ApplyOptions(opts ...Option) *Options {
	options := &Options{StderrTail: defaultStderrTail}
	for _, opt := range opts {
		opt(options)
	}
	if options.StderrTail <= 0 {
		options.StderrTail = defaultStderrTail
	}
	return options
}

// CommandRunner executes commands via os/exec.
type CommandRunner struct{}

// New creates a CommandRunner.
func New() *CommandRunner {
	return &CommandRunner{}
}

// Run executes program with args, blocking until it exits. A non-zero exit
// is reported both in Result.ExitCode and as an error wrapping the
// exec failure.
func (r *CommandRunner) Run(ctx context.Context, program string, args []string, opts ...Option) (*Result, error) {
	options := ApplyOptions(opts...)

	cmd := exec.CommandContext(ctx, program, args...)
	if options.Dir != "" {
		cmd.Dir = options.Dir
	}
	if len(options.Env) > 0 {
		cmd.Env = append(os.Environ(), options.Env...)
	}

	var stdoutBuf bytes.Buffer
	tail := newTailWriter(options.StderrTail)
	if options.StderrWriter != nil {
		cmd.Stderr = io.MultiWriter(tail, options.StderrWriter)
	} else {
		cmd.Stderr = tail
	}

	var runErr error
	if options.LineHandler != nil {
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("failed to start %s: %w", program, err)
		}

		scanner := bufio.NewScanner(stdout)
		scanner.Split(scanProgressLines)
		for scanner.Scan() {
			options.LineHandler(scanner.Text())
		}
		runErr = cmd.Wait()
	} else {
		cmd.Stdout = &stdoutBuf
		runErr = cmd.Run()
	}

	result := &Result{
		Stdout:   stdoutBuf.String(),
		Stderr:   tail.String(),
		ExitCode: exitCode(runErr),
	}
	if runErr != nil {
		return result, fmt.Errorf("%s exited abnormally: %w", program, runErr)
	}
	return result, nil
}

// exitCode extracts the child's exit code from a Run/Wait error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// scanProgressLines splits on \n and bare \r so in-place progress updates
// arrive as individual lines.
func scanProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		if data[i] == '\r' {
			if advance == len(data) && !atEOF {
				// Wait for more data to see whether this is a \r\n pair
				return 0, nil, nil
			}
			// Treat \r\n as one terminator
			if advance < len(data) && data[advance] == '\n' {
				advance++
			}
		}
		return advance, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

type tailWriter struct {
	max int
	buf []byte
}

func newTailWriter(max int) *tailWriter {
	return &tailWriter{max: max}
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	if len(w.buf) > w.max {
		w.buf = w.buf[len(w.buf)-w.max:]
	}
	return len(p), nil
}

func (w *tailWriter) String() string {
	return string(w.buf)
}
