package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SaveEnv snapshots the given environment variables, unsets them, and
// restores them when the test finishes.
func SaveEnv(t *testing.T, keys ...string) {
	t.Helper()

	original := make(map[string]string, len(keys))
	for _, key := range keys {
		original[key] = os.Getenv(key)
		os.Unsetenv(key)
	}

	t.Cleanup(func() {
		for key, val := range original {
			if val != "" {
				os.Setenv(key, val)
			} else {
				os.Unsetenv(key)
			}
		}
	})
}

// WriteCredentialsFile writes a dotenv credentials file into a temp
// directory and returns its path.
func WriteCredentialsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write credentials file: %v", err)
	}
	return path
}
