// Package cmd implements the pockets3 CLI.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/SPJDevOps/PocketS3/internal/config"
	"github.com/SPJDevOps/PocketS3/internal/observability"
)

// versionInfo is the build identity, set from main via SetVersionInfo.
var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "none",
	BuildDate: "unknown",
}

// SetVersionInfo records the build identity for the version command and the
// HTTP version endpoint.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var (
	flagLogLevel  string
	flagLogFormat string

	flagProfile    string
	flagEndpoint   string
	flagRegion     string
	flagAWSProfile string
	flagPathStyle  bool
)

var rootCmd = &cobra.Command{
	Use:   "pockets3",
	Short: "Browser-based file manager for S3-compatible storage",
	Long: `pockets3 serves a web file manager over any S3-compatible bucket and
provides the same browsing operations (tree, listing, search) on the
command line.

Buckets stay flat object stores; the folder hierarchy is derived from key
prefixes on every request and never persisted.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		overrides := map[string]any{}
		if cmd.Flags().Changed("log-level") {
			overrides["logging"] = map[string]any{"level": flagLogLevel}
		}
		if cmd.Flags().Changed("log-format") {
			logging, _ := overrides["logging"].(map[string]any)
			if logging == nil {
				logging = map[string]any{}
			}
			logging["format"] = flagLogFormat
			overrides["logging"] = logging
		}

		cfg, err := config.Load(cmd.Context(), overrides)
		if err != nil {
			return exitError(foundry.ExitInvalidArgument, "Failed to load configuration", err)
		}

		if err := observability.InitCLILogger(cfg.Logging.Level, cfg.Logging.Format); err != nil {
			return exitError(foundry.ExitInvalidArgument, "Failed to initialize logging", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "json", "log format (json, console)")

	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "connection profile from ~/.pockets3/profiles.yaml")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "custom endpoint URL for S3-compatible stores")
	rootCmd.PersistentFlags().StringVar(&flagRegion, "region", "", "AWS region")
	rootCmd.PersistentFlags().StringVar(&flagAWSProfile, "aws-profile", "", "AWS shared config profile for credentials")
	rootCmd.PersistentFlags().BoolVar(&flagPathStyle, "path-style", false, "force path-style addressing")
}

// Execute runs the CLI and exits the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		observability.Sync()
		os.Exit(exitCodeFor(err))
	}
	observability.Sync()
}

// cliError carries an exit code alongside the failure.
type cliError struct {
	code    int
	message string
	err     error
}

func (e *cliError) Error() string {
	return fmt.Sprintf("%s: %v (exit code %d)", e.message, e.err, e.code)
}

func (e *cliError) Unwrap() error {
	return e.err
}

// exitError creates an error that will cause the CLI to exit with the given code.
func exitError(code int, message string, err error) error {
	return &cliError{code: code, message: message, err: err}
}

func exitCodeFor(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}
