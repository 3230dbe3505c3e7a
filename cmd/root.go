// Package cmd implements the jarvis CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jarvisdesk/jarvis/internal/shared/cmdutils"
)

const version = "0.1.0"

var verbose bool

// rootCmd is the base command. Without a subcommand it opens the chat window.
var rootCmd = &cobra.Command{
	Use:           "jarvis",
	Short:         cmdutils.Logo + " jarvis — desktop AI assistant",
	Long:          cmdutils.Logo + " jarvis — a desktop AI assistant that can search the web, run commands and drive the mouse and keyboard",
	RunE:          runChat,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose (debug) logging")
	rootCmd.Flags().BoolVar(&chatLogs, "logs", false, "Write logs to stderr instead of the log file")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(schedulesCmd)
}
