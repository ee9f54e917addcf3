// Package provision ensures required external binaries are present,
// installing them through the platform's package manager when absent.
package provision

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	apperrors "github.com/wozozo/s3pull/pkg/errors"
	"github.com/wozozo/s3pull/pkg/executor"
	"github.com/wozozo/s3pull/pkg/logger"
	"github.com/wozozo/s3pull/pkg/platform"
)

// Strategy describes how a platform installs a tool: the command sequence
// to run and whether system-wide installation needs root.
type Strategy struct {
	Steps       [][]string
	RequireRoot bool
	// Cleanup paths are removed after the steps, best effort.
	Cleanup []string
}

const windowsInstallerURL = "https://awscli.amazonaws.com/AWSCLIV2.msi"

// strategies maps each platform family onto its install strategy. Lookup,
// not branching, so adding a platform is a table edit.
var strategies = map[platform.Family]Strategy{
	platform.MacOS: {
		Steps: [][]string{
			{"brew", "install", "awscli"},
		},
	},
	platform.Debian: {
		Steps: [][]string{
			{"apt-get", "update"},
			{"apt-get", "install", "-y", "awscli"},
		},
		RequireRoot: true,
	},
	platform.Fedora: {
		Steps: [][]string{
			{"dnf", "install", "-y", "awscli"},
		},
		RequireRoot: true,
	},
	platform.Windows: {
		Steps: [][]string{
			{"curl", "-fsSL", "-o", "AWSCLIV2.msi", windowsInstallerURL},
			{"msiexec", "/i", "AWSCLIV2.msi", "/qn"},
		},
		Cleanup: []string{"AWSCLIV2.msi"},
	},
}

// Provisioner ensures a tool is resolvable on the search path.
type Provisioner struct {
	family   platform.Family
	runner   executor.Runner
	lookPath func(string) (string, error)
	euid     func() int
}

// Option customizes a Provisioner, mainly for tests.
type Option func(*Provisioner)

// WithRunner injects a command runner
func WithRunner(r executor.Runner) Option {
	return func(p *Provisioner) {
		p.runner = r
	}
}

// WithLookPath injects a path resolver
func WithLookPath(fn func(string) (string, error)) Option {
	return func(p *Provisioner) {
		p.lookPath = fn
	}
}

// WithEUID injects an effective-uid source
func WithEUID(fn func() int) Option {
	return func(p *Provisioner) {
		p.euid = fn
	}
}

// New creates a Provisioner for the given platform family.
func New(family platform.Family, opts ...Option) *Provisioner {
	p := &Provisioner{
		family:   family,
		runner:   executor.New(),
		lookPath: exec.LookPath,
		euid:     os.Geteuid,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ensure resolves tool on the search path, installing it first if needed.
// It is idempotent: once the tool resolves, Ensure runs nothing. A single
// install attempt is made; transient package-manager failures (e.g. a held
// dpkg lock) surface to the user to retry manually.
func (p *Provisioner) Ensure(ctx context.Context, tool string) (string, error) {
	if path, err := p.lookPath(tool); err == nil {
		logger.Debug("tool already installed", map[string]interface{}{
			"tool": tool,
			"path": path,
		})
		return path, nil
	}

	strategy, ok := strategies[p.family]
	if !ok {
		return "", apperrors.WrapProvisionError(tool, apperrors.ErrUnsupportedPlatform)
	}

	logger.Info("installing tool", map[string]interface{}{
		"tool":     tool,
		"platform": p.family.String(),
	})

	for _, step := range strategy.Steps {
		argv := step
		if strategy.RequireRoot && p.euid() != 0 {
			argv = append([]string{"sudo"}, step...)
		}
		logger.Debug("running install step", map[string]interface{}{
			"command": argv,
		})
		result, err := p.runner.Run(ctx, argv[0], argv[1:])
		if err != nil {
			p.cleanup(strategy)
			detail := fmt.Errorf("%w: %v", apperrors.ErrInstallFailed, err)
			if result != nil && result.Stderr != "" {
				detail = fmt.Errorf("%w: %v: %s", apperrors.ErrInstallFailed, err, result.Stderr)
			}
			return "", apperrors.WrapProvisionError(tool, detail)
		}
	}
	p.cleanup(strategy)

	path, err := p.lookPath(tool)
	if err != nil {
		return "", apperrors.WrapProvisionError(tool, apperrors.ErrStillMissing)
	}

	logger.Info("tool installed", map[string]interface{}{
		"tool": tool,
		"path": path,
	})
	return path, nil
}

func (p *Provisioner) cleanup(strategy Strategy) {
	for _, path := range strategy.Cleanup {
		_ = os.Remove(path)
	}
}
