package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/docuchat/internal/core/domain"
)

var ingestSession string

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Upload documents into a session",
	Long: `Parses, chunks and indexes the given files so they can be queried.

Supported formats: pdf, docx, pptx, txt, md, csv, html.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestSession, "session", "s", "default", "session to ingest into")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if coordinator == nil {
		return errors.New("coordinator not configured")
	}

	var raws []domain.RawDocument
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		raws = append(raws, domain.RawDocument{
			Filename: filepath.Base(path),
			Content:  content,
		})
	}

	report, err := coordinator.Upload(cmd.Context(), ingestSession, raws)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	for _, name := range report.Ingested {
		cmd.Printf("indexed  %s\n", name)
	}
	for name, reason := range report.Failed {
		cmd.Printf("failed   %s: %s\n", name, reason)
	}
	cmd.Printf("%d file(s) indexed, %d chunk(s) written\n", len(report.Ingested), report.ChunkCount)

	if len(report.Failed) > 0 {
		return fmt.Errorf("%d file(s) failed", len(report.Failed))
	}
	return nil
}
