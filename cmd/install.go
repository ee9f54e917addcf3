package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wozozo/s3pull/pkg/logger"
	"github.com/wozozo/s3pull/pkg/platform"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Ensure the AWS CLI is installed",
	Long: `Detect the host platform and install the AWS CLI through its package
manager if it is not already on the search path. Safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.GetInstance().SetLevel(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Platform: %s\n", platform.Detect())
	path, err := ensureTool(ctx)
	if err != nil {
		return err
	}

	color.Green("AWS CLI available at %s", path)
	return nil
}
