package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SPJDevOps/PocketS3/internal/observability"
)

var lsCmd = &cobra.Command{
	Use:   "ls <uri>",
	Short: "List one directory level of a bucket",
	Long: `List the immediate child folders and files of a prefix.

The prefix must be the bucket root or end in '/'. Folders are printed before
files, each group in lexicographic order.

Examples:
  pockets3 ls s3://bucket/
  pockets3 ls s3://bucket/data/2024/`,
	Args: cobra.ExactArgs(1),
	RunE: runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	uri := args[0]

	parsed, err := ParseURI(uri)
	if err != nil {
		observability.CLILogger.Error("Invalid URI", zap.String("uri", uri), zap.Error(err))
		return exitError(foundry.ExitInvalidArgument, "Invalid URI", err)
	}
	if parsed.IsPattern() {
		return exitError(foundry.ExitInvalidArgument, "ls requires a prefix URI (no glob pattern)", fmt.Errorf("patterns are not supported"))
	}
	if !parsed.IsPrefix() {
		return exitError(foundry.ExitInvalidArgument, "ls requires a prefix URI", fmt.Errorf("append '/' to treat the URI as a prefix"))
	}

	svc, prov, err := openBucketService(ctx, parsed.Bucket)
	if err != nil {
		observability.CLILogger.Error("Failed to create provider", zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to connect to storage provider", err)
	}
	defer func() { _ = prov.Close() }()

	listing, err := svc.ListDirectory(ctx, parsed.Key)
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to list directory", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tSIZE\tMODIFIED\tKEY")
	for _, folder := range listing.Folders {
		fmt.Fprintf(w, "dir\t-\t-\t%s\n", folder.Path)
	}
	for _, file := range listing.Files {
		fmt.Fprintf(w, "file\t%d\t%s\t%s\n", file.Size, file.LastModified.Format("2006-01-02 15:04:05"), file.Key)
	}
	if err := w.Flush(); err != nil {
		return exitError(foundry.ExitFileWriteError, "Failed to write output", err)
	}
	return nil
}
