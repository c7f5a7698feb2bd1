package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/docuchat/internal/core/domain"
)

var (
	searchSession string
	searchLimit   int
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Retrieves the chunks most relevant to a query without generating
an answer. Uses multi-query expansion and re-ranking when an LLM is
configured, plain vector search otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchSession, "session", "s", "default", "session to search")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if coordinator == nil {
		return errors.New("coordinator not configured")
	}

	result, err := coordinator.Search(cmd.Context(), searchSession, args[0], searchLimit)
	if err != nil {
		if errors.Is(err, domain.ErrNoDocuments) {
			cmd.Println("No documents indexed. Upload some files first.")
			return nil
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(result.Chunks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(result.Chunks) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, rc := range result.Chunks {
		snippet := rc.Chunk.Content
		if len(snippet) > 160 {
			snippet = snippet[:160] + "..."
		}
		cmd.Printf("[%d] %s (%.3f)\n    %s\n", i+1, rc.Document.Filename, rc.Score, snippet)
	}
	return nil
}
