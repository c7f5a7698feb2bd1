package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askSession string
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Answers a question from the documents uploaded to a session.

The answer is generated from the most relevant passages and cites the
files it drew on. Conversation history is kept, so follow-up questions
can refer to earlier ones.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", "default", "session to ask against")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if coordinator == nil {
		return errors.New("coordinator not configured")
	}

	answer, err := coordinator.Ask(cmd.Context(), askSession, args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	if len(answer.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		seen := make(map[string]bool)
		for _, c := range answer.Citations {
			if seen[c.Filename] {
				continue
			}
			seen[c.Filename] = true
			cmd.Printf("  - %s\n", c.Filename)
		}
	}
	return nil
}
