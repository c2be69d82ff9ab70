package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/SPJDevOps/PocketS3/pkg/profiles"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage connection profiles",
	Long: `Manage named connection profiles stored in ~/.pockets3/profiles.yaml.

A profile bundles an endpoint, region, credentials profile, and addressing
style so MinIO, LocalStack, and AWS targets can be switched with --profile.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured profiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, err := profiles.Load()
		if err != nil {
			return exitError(foundry.ExitInvalidArgument, "Failed to load profiles", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tENDPOINT\tREGION\tDEFAULT")
		for _, name := range file.Names() {
			p := file.Profiles[name]
			marker := ""
			if name == file.Default {
				marker = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, p.Endpoint, p.Region, marker)
		}
		return w.Flush()
	},
}

var (
	profileSetEndpoint   string
	profileSetRegion     string
	profileSetAWSProfile string
	profileSetPathStyle  bool
	profileSetBucket     string
	profileSetDefault    bool
)

var profileSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		file, err := profiles.Load()
		if err != nil {
			return exitError(foundry.ExitInvalidArgument, "Failed to load profiles", err)
		}

		file.Set(name, profiles.Profile{
			Endpoint:       profileSetEndpoint,
			Region:         profileSetRegion,
			AWSProfile:     profileSetAWSProfile,
			ForcePathStyle: profileSetPathStyle,
			DefaultBucket:  profileSetBucket,
		})
		if profileSetDefault || file.Default == "" {
			file.Default = name
		}

		if err := file.Save(); err != nil {
			return exitError(foundry.ExitFileWriteError, "Failed to save profiles", err)
		}
		fmt.Printf("Profile %q saved to %s\n", name, profiles.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileSetCmd)

	profileSetCmd.Flags().StringVar(&profileSetEndpoint, "endpoint", "", "Custom endpoint URL")
	profileSetCmd.Flags().StringVar(&profileSetRegion, "region", "", "AWS region")
	profileSetCmd.Flags().StringVar(&profileSetAWSProfile, "aws-profile", "", "AWS shared config profile")
	profileSetCmd.Flags().BoolVar(&profileSetPathStyle, "path-style", false, "Force path-style addressing")
	profileSetCmd.Flags().StringVar(&profileSetBucket, "default-bucket", "", "Bucket the web UI opens by default")
	profileSetCmd.Flags().BoolVar(&profileSetDefault, "default", false, "Make this the default profile")
}
