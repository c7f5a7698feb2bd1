// Package cli implements the docuchat command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/parchment-labs/docuchat/internal/core/ports/driving"
	"github.com/parchment-labs/docuchat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services wired in by main before Execute is called.
var (
	coordinator     driving.Coordinator
	documentService driving.DocumentService
	sessionService  driving.SessionService
)

var rootCmd = &cobra.Command{
	Use:   "docuchat",
	Short: "Chat with your documents",
	Long: `DocuChat answers questions about your documents.

Upload files into a chat session, then ask questions. Answers are generated
from the most relevant passages and cite their sources.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the core services used by all commands.
func SetServices(c driving.Coordinator, d driving.DocumentService, s driving.SessionService) {
	coordinator = c
	documentService = d
	sessionService = s
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
