package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/docuchat/internal/adapters/driving/tui"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive chat in the terminal",
	Long: `Launches a terminal chat against the documents in a session.

Controls:
  Enter - Send question
  Esc   - Quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "default", "session to chat in")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if coordinator == nil {
		return errors.New("coordinator not configured")
	}
	return tui.Run(cmd.Context(), coordinator, chatSession)
}
