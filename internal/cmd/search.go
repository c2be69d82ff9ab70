package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SPJDevOps/PocketS3/internal/observability"
	"github.com/SPJDevOps/PocketS3/pkg/bucketview"
	"github.com/SPJDevOps/PocketS3/pkg/match"
)

var searchCmd = &cobra.Command{
	Use:   "search <uri> <query>",
	Short: "Search object keys by substring",
	Long: `Search a bucket for keys containing the query, case-insensitively.

The scan can be scoped with --include/--exclude glob patterns; include
patterns also narrow the listing to their static prefixes so a scoped search
never walks the whole bucket.

Examples:
  pockets3 search s3://bucket/ report
  pockets3 search s3://bucket/ report --include 'data/**' --exclude '**/*.tmp'
  pockets3 search s3://bucket/ logo --limit 10 --output jsonl`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

var (
	searchIncludes []string
	searchExcludes []string
	searchLimit    int
	searchOutput   string
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringArrayVar(&searchIncludes, "include", nil, "Include glob pattern (repeatable)")
	searchCmd.Flags().StringArrayVar(&searchExcludes, "exclude", nil, "Exclude glob pattern (repeatable)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Stop after N results (0=unlimited)")
	searchCmd.Flags().StringVar(&searchOutput, "output", "jsonl", "Output format (jsonl|plain)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	uri, query := args[0], args[1]

	parsed, err := ParseURI(uri)
	if err != nil {
		observability.CLILogger.Error("Invalid URI", zap.String("uri", uri), zap.Error(err))
		return exitError(foundry.ExitInvalidArgument, "Invalid URI", err)
	}
	if parsed.IsPattern() || parsed.Key != "" {
		return exitError(foundry.ExitInvalidArgument, "search operates on a whole bucket", fmt.Errorf("scope the scan with --include/--exclude instead of a key"))
	}

	opts := bucketview.SearchOptions{Limit: searchLimit}
	if len(searchIncludes) > 0 || len(searchExcludes) > 0 {
		scope, err := match.New(match.Config{Includes: searchIncludes, Excludes: searchExcludes})
		if err != nil {
			return exitError(foundry.ExitInvalidArgument, "Invalid include/exclude patterns", err)
		}
		opts.Scope = scope
	}

	svc, prov, err := openBucketService(ctx, parsed.Bucket)
	if err != nil {
		observability.CLILogger.Error("Failed to create provider", zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to connect to storage provider", err)
	}
	defer func() { _ = prov.Close() }()

	results, err := svc.Search(ctx, query, opts)
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Search failed", err)
	}

	switch searchOutput {
	case "jsonl":
		enc := json.NewEncoder(os.Stdout)
		for _, res := range results {
			if err := enc.Encode(res); err != nil {
				return exitError(foundry.ExitFileWriteError, "Failed to write output", err)
			}
		}
	case "plain":
		for _, res := range results {
			fmt.Println(res.Key)
		}
	default:
		return exitError(foundry.ExitInvalidArgument, "Invalid --output value", fmt.Errorf("expected jsonl or plain"))
	}
	return nil
}
