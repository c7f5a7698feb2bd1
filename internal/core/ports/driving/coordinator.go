package driving

import (
	"context"

	"github.com/parchment-labs/docuchat/internal/core/domain"
)

// Coordinator routes each inbound request through the agent sequence:
// ingestion for uploads, retrieval plus generation for questions.
// It is the single entry point used by every front end.
type Coordinator interface {
	// Upload ingests raw files into a session and returns a per-file report.
	Upload(ctx context.Context, sessionID string, files []domain.RawDocument) (*UploadReport, error)

	// Ask answers a question against a session's documents.
	// History is loaded from the session store and the exchange is recorded.
	Ask(ctx context.Context, sessionID, question string) (*domain.Answer, error)

	// Search retrieves relevant chunks without generating an answer.
	Search(ctx context.Context, sessionID, query string, topK int) (*domain.RetrievalResult, error)
}

// UploadReport summarises the outcome of an upload batch.
type UploadReport struct {
	// SessionID is the session the files were ingested into.
	SessionID string

	// Ingested lists filenames that were parsed and indexed.
	Ingested []string

	// Failed maps filenames to the reason they were rejected.
	Failed map[string]string

	// ChunkCount is the total number of chunks written.
	ChunkCount int

	// TraceID correlates the upload with its agent exchange.
	TraceID string
}
