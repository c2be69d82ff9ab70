package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SPJDevOps/PocketS3/internal/observability"
	"github.com/SPJDevOps/PocketS3/pkg/fstree"
)

var treeCmd = &cobra.Command{
	Use:   "tree <uri>",
	Short: "Project a bucket's keys into a folder tree",
	Long: `Derive the full folder hierarchy of a bucket from its object keys.

Every key prefix becomes a folder node, including intermediate levels that
have no marker object. Nodes are emitted in lexicographic path order.

Examples:
  pockets3 tree s3://bucket/
  pockets3 tree s3://bucket/ --output table
  pockets3 tree s3://bucket/ --endpoint http://localhost:9000 --path-style`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

var treeOutput string

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().StringVar(&treeOutput, "output", "table", "Output format (table|jsonl)")
}

func runTree(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	uri := args[0]

	parsed, err := ParseURI(uri)
	if err != nil {
		observability.CLILogger.Error("Invalid URI", zap.String("uri", uri), zap.Error(err))
		return exitError(foundry.ExitInvalidArgument, "Invalid URI", err)
	}
	if parsed.IsPattern() {
		return exitError(foundry.ExitInvalidArgument, "tree requires a bucket URI (no glob pattern)", fmt.Errorf("patterns are not supported"))
	}
	if parsed.Key != "" {
		return exitError(foundry.ExitInvalidArgument, "tree operates on a whole bucket", fmt.Errorf("drop the key from %s and use ls for a single level", uri))
	}

	svc, prov, err := openBucketService(ctx, parsed.Bucket)
	if err != nil {
		observability.CLILogger.Error("Failed to create provider", zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to connect to storage provider", err)
	}
	defer func() { _ = prov.Close() }()

	nodes, err := svc.BuildTree(ctx)
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to build tree", err)
	}

	switch treeOutput {
	case "jsonl":
		return printTreeJSONL(nodes)
	case "table":
		return printTreeTable(nodes)
	default:
		return exitError(foundry.ExitInvalidArgument, "Invalid --output value", fmt.Errorf("expected table or jsonl"))
	}
}

func printTreeJSONL(nodes []fstree.FolderNode) error {
	enc := json.NewEncoder(os.Stdout)
	for _, node := range nodes {
		if err := enc.Encode(node); err != nil {
			return exitError(foundry.ExitFileWriteError, "Failed to write output", err)
		}
	}
	return nil
}

func printTreeTable(nodes []fstree.FolderNode) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tNAME\tLEVEL")
	for _, node := range nodes {
		indent := strings.Repeat("  ", node.Level)
		fmt.Fprintf(w, "%s\t%s%s\t%d\n", node.Path, indent, node.Name, node.Level)
	}
	if err := w.Flush(); err != nil {
		return exitError(foundry.ExitFileWriteError, "Failed to write output", err)
	}
	return nil
}
