// Package platform identifies the host operating system family so the
// provisioner can pick an install strategy.
package platform

import (
	"bufio"
	"os"
	"runtime"
	"strings"

	apperrors "github.com/wozozo/s3pull/pkg/errors"
)

// Family is the OS family used to select an install strategy.
type Family string

const (
	Windows Family = "windows"
	MacOS   Family = "macos"
	Debian  Family = "debian"
	Fedora  Family = "fedora"
	Unknown Family = "unknown"
)

func (f Family) String() string {
	return string(f)
}

// osReleasePath is the standard identification file on Linux distributions.
const osReleasePath = "/etc/os-release"

// Detect returns the Family of the running host.
func Detect() Family {
	return DetectFrom(runtime.GOOS, osReleasePath)
}

// DetectFrom classifies a GOOS value plus an os-release file. It is the
// pure core of Detect so tests can drive it with fixture files.
func DetectFrom(goos string, osRelease string) Family {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	case "linux":
		return classifyLinux(osRelease)
	}
	return Unknown
}

// classifyLinux reads ID and ID_LIKE from an os-release file and maps the
// distribution onto a package-manager family.
func classifyLinux(path string) Family {
	f, err := os.Open(path)
	if err != nil {
		return Unknown
	}
	defer f.Close()

	ids := make([]string, 0, 4)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if key != "ID" && key != "ID_LIKE" {
			continue
		}
		value = strings.Trim(value, `"`)
		// ID_LIKE can hold a space-separated list, e.g. "rhel fedora"
		ids = append(ids, strings.Fields(strings.ToLower(value))...)
	}

	for _, id := range ids {
		switch id {
		case "debian", "ubuntu":
			return Debian
		case "fedora", "rhel", "centos":
			return Fedora
		}
	}
	return Unknown
}

// Require returns an error when the family cannot drive provisioning.
func Require(f Family) error {
	if f == Unknown {
		return apperrors.ErrUnsupportedPlatform
	}
	return nil
}
