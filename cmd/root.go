package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mailsweep application
var rootCmd = &cobra.Command{
	Use:   "mailsweep",
	Short: "Finds and sweeps the senders that clutter your Gmail inbox",
	Long: `mailsweep samples your Gmail inbox across time windows, ranks the senders
that dominate its volume, and bulk-moves their mail to the trash (or archive).

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
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
	rootCmd.SetVersionTemplate(`{{printf "mailsweep version %s\n" .Version}}`)

	// If no subcommand is provided, run the analyze command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "analyze")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newSweepCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newPurgeCmd())
	rootCmd.AddCommand(newPeekCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
