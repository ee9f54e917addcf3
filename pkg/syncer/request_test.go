package syncer

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wozozo/s3pull/pkg/errors"
)

func TestNewRequestCreatesMissingDestination(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a", "b", "c")

	req, err := NewRequest("s3://my-bucket/data", dest, Options{})
	require.NoError(t, err)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dest, req.Dest)
	assert.Equal(t, "my-bucket", req.Source.Bucket)
}

func TestNewRequestExistingDirectory(t *testing.T) {
	dest := t.TempDir()

	req, err := NewRequest("s3://my-bucket", dest, Options{Delete: true})
	require.NoError(t, err)
	assert.Equal(t, dest, req.Dest)
	assert.True(t, req.Options.Delete)
}

func TestNewRequestDestinationIsFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(dest, []byte("x"), 0644))

	_, err := NewRequest("s3://my-bucket", dest, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDestinationNotDir)
}

func TestNewRequestUncreatableDestination(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission semantics differ for root and windows")
	}

	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0555))
	t.Cleanup(func() { _ = os.Chmod(parent, 0755) })

	_, err := NewRequest("s3://my-bucket", filepath.Join(parent, "sub"), Options{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestNewRequestReadOnlyDestination(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission semantics differ for root and windows")
	}

	dest := t.TempDir()
	require.NoError(t, os.Chmod(dest, 0555))
	t.Cleanup(func() { _ = os.Chmod(dest, 0755) })

	_, err := NewRequest("s3://my-bucket", dest, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDestinationReadOnly)
}

func TestNewRequestInvalidSourceBeforeDestination(t *testing.T) {
	// An invalid source must fail before the destination is touched
	dest := filepath.Join(t.TempDir(), "never-created")

	_, err := NewRequest("s3://Bad_Bucket", dest, Options{})
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}
