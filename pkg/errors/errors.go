package errors

import (
	"errors"
	"fmt"
)

// Configuration errors
var (
	ErrCredentialsFileNotFound = errors.New("credentials file not found")
	ErrCredentialsFileInvalid  = errors.New("credentials file could not be parsed")
	ErrMissingCredential       = errors.New("required credential is missing")
	ErrCredentialCheckFailed   = errors.New("credential verification failed")
)

// Platform and provisioning errors
var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrToolNotFound        = errors.New("required tool not found")
	ErrInstallFailed       = errors.New("install command failed")
	ErrStillMissing        = errors.New("tool still missing after install")
)

// Validation errors
var (
	ErrInvalidSource       = errors.New("invalid source URI")
	ErrInvalidBucketName   = errors.New("invalid bucket name")
	ErrInvalidDestination  = errors.New("invalid destination path")
	ErrDestinationNotDir   = errors.New("destination exists and is not a directory")
	ErrDestinationReadOnly = errors.New("destination directory is not writable")
)

// WrapConfigError wraps a configuration error with the credentials file path
func WrapConfigError(path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("credentials %s: %w", path, err)
}

// WrapProvisionError wraps a provisioning error with the tool name
func WrapProvisionError(tool string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("provision %s: %w", tool, err)
}

// WrapSourceError wraps a validation error with the offending source URI
func WrapSourceError(uri string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("source %s: %w", uri, err)
}

// WrapDestinationError wraps a validation error with the destination path
func WrapDestinationError(path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("destination %s: %w", path, err)
}

// IsConfiguration checks if an error belongs to the configuration family
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrCredentialsFileNotFound) ||
		errors.Is(err, ErrCredentialsFileInvalid) ||
		errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrCredentialCheckFailed)
}

// IsProvisioning checks if an error belongs to the provisioning family
func IsProvisioning(err error) bool {
	return errors.Is(err, ErrToolNotFound) ||
		errors.Is(err, ErrInstallFailed) ||
		errors.Is(err, ErrStillMissing)
}

// IsValidation checks if an error is due to invalid sync input
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidSource) ||
		errors.Is(err, ErrInvalidBucketName) ||
		errors.Is(err, ErrInvalidDestination) ||
		errors.Is(err, ErrDestinationNotDir) ||
		errors.Is(err, ErrDestinationReadOnly)
}

// IsUnsupportedPlatform checks if an error is the unknown-platform terminal error
func IsUnsupportedPlatform(err error) bool {
	return errors.Is(err, ErrUnsupportedPlatform)
}
