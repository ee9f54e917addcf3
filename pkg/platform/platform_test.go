package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeOSRelease(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "os-release")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write os-release fixture: %v", err)
	}
	return path
}

func TestDetectFrom(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		osRelease string
		want      Family
	}{
		{
			name: "windows",
			goos: "windows",
			want: Windows,
		},
		{
			name: "macos",
			goos: "darwin",
			want: MacOS,
		},
		{
			name: "ubuntu",
			goos: "linux",
			osRelease: `NAME="Ubuntu"
ID=ubuntu
ID_LIKE=debian
VERSION_ID="24.04"`,
			want: Debian,
		},
		{
			name: "debian",
			goos: "linux",
			osRelease: `ID=debian
PRETTY_NAME="Debian GNU/Linux 12 (bookworm)"`,
			want: Debian,
		},
		{
			name: "fedora",
			goos: "linux",
			osRelease: `NAME="Fedora Linux"
ID=fedora`,
			want: Fedora,
		},
		{
			name: "centos via id_like list",
			goos: "linux",
			osRelease: `ID=almalinux
ID_LIKE="rhel centos fedora"`,
			want: Fedora,
		},
		{
			name: "unclassified distro",
			goos: "linux",
			osRelease: `ID=alpine
ID_LIKE=musl`,
			want: Unknown,
		},
		{
			name: "unknown goos",
			goos: "plan9",
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing")
			if tt.osRelease != "" {
				path = writeOSRelease(t, tt.osRelease)
			}
			assert.Equal(t, tt.want, DetectFrom(tt.goos, path))
		})
	}
}

func TestDetectFromIsDeterministic(t *testing.T) {
	path := writeOSRelease(t, "ID=ubuntu\nID_LIKE=debian\n")
	first := DetectFrom("linux", path)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DetectFrom("linux", path))
	}
}

func TestDetectFromMissingOSRelease(t *testing.T) {
	assert.Equal(t, Unknown, DetectFrom("linux", filepath.Join(t.TempDir(), "nope")))
}

func TestRequire(t *testing.T) {
	assert.NoError(t, Require(Debian))
	assert.Error(t, Require(Unknown))
}
