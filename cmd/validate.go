package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wozozo/s3pull/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [env-file]",
	Short: "Validate the credentials file and config.toml",
	Long: `Validate the credentials file for required keys, and the optional
~/.config/s3pull/config.toml overlay for syntax and semantic errors.
If no path is provided, validates the configured credentials file.
No network or subprocess activity is performed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	envFile := cfg.EnvFile
	if len(args) > 0 {
		envFile = args[0]
	}

	fmt.Printf("Validating credentials: %s\n", envFile)
	if _, err := config.LoadCredentials(envFile, cfg.DefaultRegion); err != nil {
		fmt.Printf("❌ Validation failed: %v\n", err)
		return err
	}
	fmt.Println("✅ Credentials file is valid")

	configFile := config.DefaultConfigFile()
	if configFile == "" {
		return nil
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil
	}

	fmt.Printf("Validating configuration: %s\n", configFile)
	if err := config.ValidateFile(configFile); err != nil {
		fmt.Printf("❌ Validation failed: %v\n", err)
		return err
	}
	fmt.Println("✅ Validation successful: config.toml is valid")
	return nil
}
