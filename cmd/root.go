package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the crewai-app backend
var rootCmd = &cobra.Command{
	Use:   "crewai-app",
	Short: "Runs LLM agent tasks against Google Calendar and Contacts",
	Long: `crewai-app is a backend that authenticates Descope user sessions,
exchanges them for delegated Google access tokens, and runs LLM agent
tasks that create calendar events and search contacts on the user's
behalf.`,
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
	rootCmd.SetVersionTemplate(`{{printf "crewai-app version %s\n" .Version}}`)

	// If no subcommand is provided, serve by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
