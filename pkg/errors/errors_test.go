package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFamilies(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		isConfiguration bool
		isProvisioning  bool
		isValidation    bool
	}{
		{
			name:            "missing credentials file",
			err:             WrapConfigError(".env", ErrCredentialsFileNotFound),
			isConfiguration: true,
		},
		{
			name:            "missing credential key",
			err:             fmt.Errorf("%w: AWS_ACCESS_KEY_ID", ErrMissingCredential),
			isConfiguration: true,
		},
		{
			name:           "install failed",
			err:            WrapProvisionError("aws", ErrInstallFailed),
			isProvisioning: true,
		},
		{
			name:           "tool still missing after install",
			err:            ErrStillMissing,
			isProvisioning: true,
		},
		{
			name:         "invalid source",
			err:          WrapSourceError("ftp://x", ErrInvalidSource),
			isValidation: true,
		},
		{
			name:         "read-only destination",
			err:          WrapDestinationError("/root/x", ErrDestinationReadOnly),
			isValidation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isConfiguration, IsConfiguration(tt.err))
			assert.Equal(t, tt.isProvisioning, IsProvisioning(tt.err))
			assert.Equal(t, tt.isValidation, IsValidation(tt.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, WrapConfigError(".env", nil))
	assert.NoError(t, WrapProvisionError("aws", nil))
	assert.NoError(t, WrapSourceError("s3://b", nil))
	assert.NoError(t, WrapDestinationError("/tmp", nil))
}

func TestSyncError(t *testing.T) {
	err := NewSyncError(2, "fatal error: An error occurred (403)\n")
	assert.True(t, IsSync(err))
	assert.Contains(t, err.Error(), "exit code 2")
	assert.Contains(t, err.Error(), "403")

	bare := NewSyncError(1, "")
	assert.Equal(t, "sync failed with exit code 1", bare.Error())

	assert.False(t, IsSync(ErrInstallFailed))
}

func TestIsUnsupportedPlatform(t *testing.T) {
	assert.True(t, IsUnsupportedPlatform(fmt.Errorf("detect: %w", ErrUnsupportedPlatform)))
	assert.False(t, IsUnsupportedPlatform(ErrToolNotFound))
}
