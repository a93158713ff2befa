package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the gmailsink application
var rootCmd = &cobra.Command{
	Use:   "gmailsink",
	Short: "Loads Gmail message bodies into Snowflake",
	Long: `gmailsink fetches the previous day's Gmail messages for a set of
Workspace users and appends their bodies to a Snowflake table.

It authenticates with a domain-wide delegated service account and is
intended to run as a scheduled or manually dispatched batch job.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gmailsink version %s\n" .Version}}`)

	// If no subcommand is provided, run the sync command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "sync")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newVersionCmd())
}
