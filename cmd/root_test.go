package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wozozo/s3pull/internal/config"
)

func TestInitConfigFlagOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, rootCmd.PersistentFlags().Set("env-file", "/tmp/custom.env"))
	require.NoError(t, rootCmd.PersistentFlags().Set("aws-bin", "aws2"))
	require.NoError(t, rootCmd.PersistentFlags().Set("no-install", "true"))
	t.Cleanup(func() {
		_ = rootCmd.PersistentFlags().Set("env-file", ".env")
		_ = rootCmd.PersistentFlags().Set("aws-bin", "aws")
		_ = rootCmd.PersistentFlags().Set("no-install", "false")
	})

	initConfig()

	assert.Equal(t, "/tmp/custom.env", cfg.EnvFile)
	assert.Equal(t, "aws2", cfg.AWSBin)
	assert.True(t, cfg.NoInstall)
}

func TestRunSyncMissingCredentialsBeforeSubprocess(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg = config.Load()
	cfg.EnvFile = filepath.Join(home, "absent.env")

	dest := filepath.Join(home, "dest")
	err := runSync(rootCmd, []string{"s3://my-bucket", dest})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")

	// The failure happens before the destination is prepared
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}
