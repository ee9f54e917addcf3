package cmd

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wozozo/s3pull/internal/config"
	"github.com/wozozo/s3pull/internal/setup"
	apperrors "github.com/wozozo/s3pull/pkg/errors"
	"github.com/wozozo/s3pull/pkg/identity"
	"github.com/wozozo/s3pull/pkg/logger"
	"github.com/wozozo/s3pull/pkg/platform"
	"github.com/wozozo/s3pull/pkg/provision"
	"github.com/wozozo/s3pull/pkg/syncer"
)

// timeRound trims duration noise in the success line.
const timeRound = 10 * time.Millisecond

var (
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:   "s3pull <s3-source> <local-destination>",
		Short: "Sync an S3 bucket or prefix to a local directory",
		Long: `S3pull ensures the AWS CLI is installed, reads AWS credentials from a
local .env file, and runs 'aws s3 sync' with a live progress display.`,
		Args:          cobra.ExactArgs(2),
		RunE:          runSync,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("env-file", "e", ".env", "Path to the credentials file")
	rootCmd.PersistentFlags().String("aws-bin", "aws", "Name or path of the AWS CLI binary")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("no-install", false, "Fail instead of installing the AWS CLI when it is missing")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Skip the credential check and the pre-sync summary")

	rootCmd.Flags().Bool("dry-run", false, "Pass --dryrun to the sync command")
	rootCmd.Flags().Bool("delete", false, "Pass --delete to the sync command")
	rootCmd.Flags().StringArray("exclude", nil, "Exclude pattern, passed through (repeatable)")
	rootCmd.Flags().StringArray("include", nil, "Include pattern, passed through (repeatable)")
}

func initConfig() {
	cfg = config.Load()

	if envFile, _ := rootCmd.PersistentFlags().GetString("env-file"); rootCmd.PersistentFlags().Changed("env-file") {
		cfg.EnvFile = envFile
	}
	if awsBin, _ := rootCmd.PersistentFlags().GetString("aws-bin"); rootCmd.PersistentFlags().Changed("aws-bin") {
		cfg.AWSBin = awsBin
	}
	if logLevel, _ := rootCmd.PersistentFlags().GetString("log-level"); rootCmd.PersistentFlags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if noInstall, _ := rootCmd.PersistentFlags().GetBool("no-install"); rootCmd.PersistentFlags().Changed("no-install") {
		cfg.NoInstall = noInstall
	}
	if quiet, _ := rootCmd.PersistentFlags().GetBool("quiet"); rootCmd.PersistentFlags().Changed("quiet") {
		cfg.Quiet = quiet
	}
}

// prepare validates the config and loads credentials; shared by the root,
// install and whoami commands.
func prepare(cmd *cobra.Command) (*config.Credentials, error) {
	if err := setup.InitializeConfigDir(); err != nil {
		// Not critical, the run can proceed without a config dir
		cmd.Printf("Warning: Failed to initialize config directory: %v\n", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.GetInstance()
	log.SetLevel(logger.ParseLevel(cfg.LogLevel))
	if cfg.EnableFileLog {
		if err := log.EnableFileLogging(cfg.LogDir); err != nil {
			cmd.Printf("Warning: %v\n", err)
		}
	}

	return config.LoadCredentials(cfg.EnvFile, cfg.DefaultRegion)
}

// ensureTool provisions the AWS CLI unless --no-install is set.
func ensureTool(ctx context.Context) (string, error) {
	family := platform.Detect()
	logger.Debug("detected platform", map[string]interface{}{
		"family": family.String(),
	})

	if cfg.NoInstall {
		path, err := exec.LookPath(cfg.AWSBin)
		if err != nil {
			return "", apperrors.WrapProvisionError(cfg.AWSBin, apperrors.ErrToolNotFound)
		}
		return path, nil
	}

	if err := platform.Require(family); err != nil {
		// A resolvable binary trumps an unknown platform
		if path, lookErr := exec.LookPath(cfg.AWSBin); lookErr == nil {
			return path, nil
		}
		return "", err
	}

	return provision.New(family).Ensure(ctx, cfg.AWSBin)
}

func runSync(cmd *cobra.Command, args []string) error {
	creds, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer logger.GetInstance().Close()

	opts := syncer.Options{}
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.Delete, _ = cmd.Flags().GetBool("delete")
	opts.Exclude, _ = cmd.Flags().GetStringArray("exclude")
	opts.Include, _ = cmd.Flags().GetStringArray("include")

	req, err := syncer.NewRequest(args[0], args[1], opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsBin, err := ensureTool(ctx)
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		if _, err := identity.Check(ctx, creds); err != nil {
			return err
		}
		printSummary(cmd, req)
	}

	result, err := syncer.New(awsBin, creds).Sync(ctx, req)
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		color.Green("Sync completed successfully! %d object(s), %d byte(s) in %s",
			result.Objects, result.Bytes, result.Duration.Round(timeRound))
	}
	return nil
}

func printSummary(cmd *cobra.Command, req *syncer.Request) {
	cyan := color.New(color.FgCyan).SprintFunc()
	prefix := req.Source.Prefix
	if prefix == "" {
		prefix = "(root)"
	}
	cmd.Printf("%s\n", color.New(color.Bold).Sprint("S3 Sync Details"))
	cmd.Printf("  Bucket:     %s\n", cyan(req.Source.Bucket))
	cmd.Printf("  Prefix:     %s\n", cyan(prefix))
	cmd.Printf("  Local Path: %s\n", cyan(req.Dest))
}

func Execute() error {
	return rootCmd.Execute()
}
