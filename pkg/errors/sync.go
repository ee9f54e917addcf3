package errors

import (
	"errors"
	"fmt"
	"strings"
)

// SyncError reports a non-zero exit from the sync subprocess. It carries the
// exit code and the tail of the child's stderr so the user sees what the
// AWS CLI actually complained about.
type SyncError struct {
	ExitCode int
	Stderr   string
}

func (e *SyncError) Error() string {
	tail := strings.TrimSpace(e.Stderr)
	if tail == "" {
		return fmt.Sprintf("sync failed with exit code %d", e.ExitCode)
	}
	return fmt.Sprintf("sync failed with exit code %d: %s", e.ExitCode, tail)
}

// NewSyncError creates a SyncError from an exit code and captured stderr
func NewSyncError(exitCode int, stderr string) *SyncError {
	return &SyncError{ExitCode: exitCode, Stderr: stderr}
}

// IsSync checks if an error is a sync subprocess failure
func IsSync(err error) bool {
	var se *SyncError
	return errors.As(err, &se)
}
