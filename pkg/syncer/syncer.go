// Package syncer validates sync requests and drives the external sync tool,
// turning its textual progress output into a terminal progress display.
package syncer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wozozo/s3pull/internal/config"
	apperrors "github.com/wozozo/s3pull/pkg/errors"
	"github.com/wozozo/s3pull/pkg/executor"
	"github.com/wozozo/s3pull/pkg/logger"
)

// Result summarizes a completed sync.
type Result struct {
	Objects    int
	Bytes      int64
	Duration   time.Duration
	LastSample *ProgressSample
}

// Syncer invokes the AWS CLI's sync command as a subprocess.
type Syncer struct {
	awsBin      string
	creds       *config.Credentials
	runner      executor.Runner
	renderer    Renderer
	passthrough io.Writer
}

// Option customizes a Syncer.
type Option func(*Syncer)

// WithRunner injects a command runner
func WithRunner(r executor.Runner) Option {
	return func(s *Syncer) {
		s.runner = r
	}
}

// WithRenderer injects a progress renderer
func WithRenderer(r Renderer) Option {
	return func(s *Syncer) {
		s.renderer = r
	}
}

// WithPassthrough sets the writer for non-progress output lines
func WithPassthrough(w io.Writer) Option {
	return func(s *Syncer) {
		s.passthrough = w
	}
}

// New creates a Syncer that runs awsBin with the given credentials.
func New(awsBin string, creds *config.Credentials, opts ...Option) *Syncer {
	s := &Syncer{
		awsBin:      awsBin,
		creds:       creds,
		runner:      executor.New(),
		renderer:    NewBarRenderer(os.Stderr),
		passthrough: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync runs `aws s3 sync <source> <dest>` and blocks until it exits,
// consuming progress lines as they arrive. Interrupting the process aborts
// mid-transfer; the AWS CLI leaves partial objects that a re-run resumes,
// since sync is idempotent at the object level.
func (s *Syncer) Sync(ctx context.Context, req *Request) (*Result, error) {
	argv := s.buildArgs(req)
	logger.Debug("invoking sync", map[string]interface{}{
		"command": append([]string{s.awsBin}, argv...),
	})

	start := time.Now()
	result := &Result{}

	handleLine := func(line string) {
		if sample, ok := ParseProgressLine(line); ok {
			sample.Elapsed = time.Since(start)
			result.Bytes = sample.Transferred
			result.LastSample = &sample
			s.renderer.Update(sample)
			return
		}
		if key, ok := ParseObjectLine(line); ok {
			result.Objects++
			s.renderer.Object(key)
			return
		}
		if line != "" {
			// Non-progress output passes through unmodified
			fmt.Fprintln(s.passthrough, line)
		}
	}

	runResult, runErr := s.runner.Run(ctx, s.awsBin, argv,
		executor.WithEnv(s.creds.Env()...),
		executor.WithLineHandler(handleLine),
	)
	s.renderer.Finish()
	result.Duration = time.Since(start)

	if runErr != nil {
		if runResult != nil && runResult.ExitCode > 0 {
			return nil, apperrors.NewSyncError(runResult.ExitCode, runResult.Stderr)
		}
		return nil, fmt.Errorf("failed to run %s: %w", s.awsBin, runErr)
	}

	logger.Info("sync complete", map[string]interface{}{
		"source":   req.Source.URI(),
		"dest":     req.Dest,
		"objects":  result.Objects,
		"bytes":    result.Bytes,
		"duration": result.Duration.String(),
	})
	return result, nil
}

// buildArgs renders the request into AWS CLI arguments
func (s *Syncer) buildArgs(req *Request) []string {
	argv := []string{"s3", "sync", req.Source.URI(), req.Dest}
	if req.Options.DryRun {
		argv = append(argv, "--dryrun")
	}
	if req.Options.Delete {
		argv = append(argv, "--delete")
	}
	for _, pattern := range req.Options.Exclude {
		argv = append(argv, "--exclude", pattern)
	}
	for _, pattern := range req.Options.Include {
		argv = append(argv, "--include", pattern)
	}
	return argv
}
