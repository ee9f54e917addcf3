package testutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/wozozo/s3pull/pkg/executor"
)

// Invocation records one call made through a FakeRunner.
type Invocation struct {
	Program string
	Args    []string
	Env     []string
}

// CommandLine renders the invocation for assertion messages.
func (i Invocation) CommandLine() string {
	return strings.Join(append([]string{i.Program}, i.Args...), " ")
}

// FakeResponse scripts the outcome of one FakeRunner invocation.
type FakeResponse struct {
	Lines    []string // streamed to the line handler when one is set
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// FakeRunner implements executor.Runner, replaying scripted responses and
// recording every invocation.
type FakeRunner struct {
	Responses   []FakeResponse
	Invocations []Invocation
}

// Run replays the next scripted response. When the script runs out, it
// succeeds with empty output.
func (f *FakeRunner) Run(ctx context.Context, program string, args []string, opts ...executor.Option) (*executor.Result, error) {
	options := executor.ApplyOptions(opts...)

	f.Invocations = append(f.Invocations, Invocation{
		Program: program,
		Args:    args,
		Env:     options.Env,
	})

	resp := FakeResponse{}
	if len(f.Responses) > 0 {
		resp = f.Responses[0]
		f.Responses = f.Responses[1:]
	}

	if options.LineHandler != nil {
		for _, line := range resp.Lines {
			options.LineHandler(line)
		}
	}
	if options.StderrWriter != nil && resp.Stderr != "" {
		fmt.Fprint(options.StderrWriter, resp.Stderr)
	}

	result := &executor.Result{
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		ExitCode: resp.ExitCode,
	}
	if resp.Err != nil {
		return result, resp.Err
	}
	if resp.ExitCode != 0 {
		return result, fmt.Errorf("%s exited abnormally: exit status %d", program, resp.ExitCode)
	}
	return result, nil
}

// CallCount returns how many times the runner was invoked.
func (f *FakeRunner) CallCount() int {
	return len(f.Invocations)
}
