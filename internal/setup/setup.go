package setup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/wozozo/s3pull/internal/config"
)

const envExample = `# s3pull credentials file
# Copy to .env (or point --env-file at it) and fill in real values.
AWS_ACCESS_KEY_ID=
AWS_SECRET_ACCESS_KEY=
AWS_DEFAULT_REGION=us-east-1
`

// InitializeConfigDir creates the config directory, a default config.toml
// and a .env.example template if they don't exist
func InitializeConfigDir() error {
	configDir := config.DefaultConfigDir()
	if configDir == "" {
		return fmt.Errorf("failed to determine home directory")
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := writeDefaultConfig(filepath.Join(configDir, "config.toml")); err != nil {
		return err
	}
	return writeEnvExample(filepath.Join(configDir, ".env.example"))
}

func writeDefaultConfig(configFile string) error {
	// Check if config.toml already exists
	if _, err := os.Stat(configFile); err == nil {
		// File exists, do nothing
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config.toml: %w", err)
	}

	defaultConfig := config.FileConfig{
		EnvFile:       ".env",
		AWSBin:        "aws",
		LogLevel:      "info",
		DefaultRegion: "us-east-1",
	}

	data, err := toml.Marshal(defaultConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write config.toml: %w", err)
	}

	fmt.Printf("\n✅ Created default configuration at %s\n", configFile)
	fmt.Printf("\n💡 Quick start:\n")
	fmt.Printf("  cp %s .env\n", filepath.Join(filepath.Dir(configFile), ".env.example"))
	fmt.Printf("  # fill in your AWS credentials, then:\n")
	fmt.Printf("  s3pull s3://my-bucket/path /local/path\n")
	fmt.Printf("\n")
	return nil
}

func writeEnvExample(examplePath string) error {
	if _, err := os.Stat(examplePath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check .env.example: %w", err)
	}

	// Credentials template is user-readable only
	if err := os.WriteFile(examplePath, []byte(envExample), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}
	return nil
}
