package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	EnvFile       string
	AWSBin        string
	LogLevel      string
	LogDir        string
	EnableFileLog bool
	NoInstall     bool
	DefaultRegion string
	Quiet         bool
}

// FileConfig is the optional config.toml overlay. Env vars beat file
// values; flags beat both.
type FileConfig struct {
	EnvFile       string `toml:"envFile,omitempty"`
	AWSBin        string `toml:"awsBin,omitempty"`
	LogLevel      string `toml:"logLevel,omitempty"`
	LogDir        string `toml:"logDir,omitempty"`
	EnableFileLog *bool  `toml:"enableFileLog,omitempty"`
	NoInstall     *bool  `toml:"noInstall,omitempty"`
	DefaultRegion string `toml:"defaultRegion,omitempty"`
}

// expandTilde expands the tilde (~) in a path to the user's home directory
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// DefaultConfigDir returns the tool's config directory
func DefaultConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "s3pull")
}

// DefaultConfigFile returns the path of the optional config.toml overlay
func DefaultConfigFile() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// Load builds a Config from defaults, the optional config.toml overlay and
// environment variables, in that order of increasing precedence.
func Load() *Config {
	cfg := &Config{
		EnvFile:  ".env",
		AWSBin:   "aws",
		LogLevel: "info",
		LogDir:   filepath.Join(DefaultConfigDir(), "logs"),
	}

	if path := DefaultConfigFile(); path != "" {
		// A broken overlay should not take the tool down; it is reported
		// again by the validate subcommand.
		_ = cfg.applyFile(path)
	}
	cfg.applyEnv()

	return cfg
}

// applyFile overlays values from a config.toml file if it exists
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid TOML in %s: %w", path, err)
	}

	if fc.EnvFile != "" {
		c.EnvFile = fc.EnvFile
	}
	if fc.AWSBin != "" {
		c.AWSBin = fc.AWSBin
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogDir != "" {
		c.LogDir = fc.LogDir
	}
	if fc.EnableFileLog != nil {
		c.EnableFileLog = *fc.EnableFileLog
	}
	if fc.NoInstall != nil {
		c.NoInstall = *fc.NoInstall
	}
	if fc.DefaultRegion != "" {
		c.DefaultRegion = fc.DefaultRegion
	}
	return nil
}

// applyEnv overlays S3PULL_* environment variables
func (c *Config) applyEnv() {
	c.EnvFile = getEnvOrDefault("S3PULL_ENV_FILE", c.EnvFile)
	c.AWSBin = getEnvOrDefault("S3PULL_AWS_BIN", c.AWSBin)
	c.LogLevel = getEnvOrDefault("S3PULL_LOG_LEVEL", c.LogLevel)
	c.LogDir = getEnvOrDefault("S3PULL_LOG_DIR", c.LogDir)
	c.EnableFileLog = getEnvAsBoolOrDefault("S3PULL_ENABLE_FILE_LOG", c.EnableFileLog)
	c.NoInstall = getEnvAsBoolOrDefault("S3PULL_NO_INSTALL", c.NoInstall)
	c.DefaultRegion = getEnvOrDefault("S3PULL_DEFAULT_REGION", c.DefaultRegion)
}

// ValidateFile parses a config.toml overlay and reports semantic problems.
// Used by the validate subcommand.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fc FileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid TOML format: %w", err)
	}

	if fc.LogLevel != "" && !contains(validLogLevels, strings.ToLower(fc.LogLevel)) {
		return fmt.Errorf("invalid log level: %s, must be one of: %s", fc.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if fc.LogDir != "" && !isValidDirectoryPath(fc.LogDir) {
		return fmt.Errorf("logDir must be an absolute path or start with ~/, got: %s", fc.LogDir)
	}
	return nil
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s, must be one of: %s", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.AWSBin == "" {
		return fmt.Errorf("aws binary name cannot be empty")
	}

	c.EnvFile = expandTilde(c.EnvFile)
	c.LogDir = expandTilde(c.LogDir)

	if c.EnableFileLog {
		absPath, err := filepath.Abs(c.LogDir)
		if err != nil {
			return fmt.Errorf("invalid log directory: %w", err)
		}
		c.LogDir = absPath
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// isValidDirectoryPath checks if directory path is absolute or starts with ~/
func isValidDirectoryPath(path string) bool {
	return filepath.IsAbs(path) || strings.HasPrefix(path, "~/")
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env File: %s\nAWS Binary: %s\nLog Level: %s\nLog Dir: %s\nFile Log: %v\nNo Install: %v\nDefault Region: %s",
		c.EnvFile, c.AWSBin, c.LogLevel, c.LogDir, c.EnableFileLog, c.NoInstall, c.DefaultRegion,
	)
}
