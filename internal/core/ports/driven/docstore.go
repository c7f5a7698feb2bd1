package driven

import (
	"context"

	"github.com/parchment-labs/docuchat/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByFilename retrieves a session's document by its original
	// file name. Used to detect re-uploads.
	GetDocumentByFilename(ctx context.Context, sessionID, filename string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document, ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns documents for a session.
	ListDocuments(ctx context.Context, sessionID string) ([]domain.Document, error)

	// ListAllChunks returns every stored chunk together with its session.
	// Used to rebuild the vector index at startup.
	ListAllChunks(ctx context.Context) ([]StoredChunk, error)
}

// StoredChunk pairs a chunk with the session that owns it.
type StoredChunk struct {
	// SessionID is the owning session.
	SessionID string

	// Chunk is the stored chunk, embedding included.
	Chunk domain.Chunk
}
