package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wozozo/s3pull/pkg/identity"
	"github.com/wozozo/s3pull/pkg/logger"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Verify credentials and print the STS caller identity",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	creds, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer logger.GetInstance().Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id, err := identity.Check(ctx, creds)
	if err != nil {
		return err
	}

	cmd.Printf("%s\n", id)
	return nil
}
