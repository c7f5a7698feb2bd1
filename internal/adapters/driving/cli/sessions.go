package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	RunE:  runSessionsList,
}

var sessionsHistoryCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show a session's conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsHistory,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a session and its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsHistoryCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessions, err := sessionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No sessions.")
		return nil
	}
	for _, session := range sessions {
		title := session.Title
		if title == "" {
			title = "(untitled)"
		}
		cmd.Printf("%s  %s  %s\n", session.ID, session.UpdatedAt.Format("2006-01-02 15:04"), title)
	}
	return nil
}

func runSessionsHistory(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	turns, err := sessionService.History(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(turns) == 0 {
		cmd.Println("No history.")
		return nil
	}
	for _, turn := range turns {
		cmd.Printf("%s: %s\n", turn.Role, turn.Content)
	}
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := sessionService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	cmd.Printf("deleted %s\n", args[0])
	return nil
}
