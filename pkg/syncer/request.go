package syncer

import (
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/wozozo/s3pull/pkg/errors"
)

// Options are pass-through switches for the underlying sync command.
type Options struct {
	DryRun  bool
	Delete  bool
	Exclude []string
	Include []string
}

// Request is a validated sync request. Immutable once built.
type Request struct {
	Source  Source
	Dest    string
	Options Options
}

// NewRequest parses the source URI, validates the destination and freezes a
// Request. The destination is created if missing; a destination that cannot
// be created or written is rejected before any subprocess runs.
func NewRequest(rawSource, dest string, opts Options) (*Request, error) {
	source, err := ParseSource(rawSource)
	if err != nil {
		return nil, err
	}

	absDest, err := filepath.Abs(dest)
	if err != nil {
		return nil, apperrors.WrapDestinationError(dest, fmt.Errorf("%w: %v", apperrors.ErrInvalidDestination, err))
	}

	if err := ensureWritableDir(absDest); err != nil {
		return nil, err
	}

	return &Request{Source: source, Dest: absDest, Options: opts}, nil
}

// ensureWritableDir creates the directory if missing and probes that it
// accepts writes.
func ensureWritableDir(dest string) error {
	info, err := os.Stat(dest)
	switch {
	case err == nil:
		if !info.IsDir() {
			return apperrors.WrapDestinationError(dest, apperrors.ErrDestinationNotDir)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(dest, 0755); err != nil {
			return apperrors.WrapDestinationError(dest, fmt.Errorf("%w: %v", apperrors.ErrInvalidDestination, err))
		}
	default:
		return apperrors.WrapDestinationError(dest, fmt.Errorf("%w: %v", apperrors.ErrInvalidDestination, err))
	}

	probe, err := os.CreateTemp(dest, ".s3pull-probe-*")
	if err != nil {
		return apperrors.WrapDestinationError(dest, apperrors.ErrDestinationReadOnly)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}
