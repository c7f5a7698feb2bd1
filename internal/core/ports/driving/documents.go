package driving

import (
	"context"

	"github.com/parchment-labs/docuchat/internal/core/domain"
)

// DocumentService manages documents within sessions.
type DocumentService interface {
	// ListBySession returns all documents indexed for a session.
	ListBySession(ctx context.Context, sessionID string) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Delete removes a document, its chunks, its vectors and its stored file.
	Delete(ctx context.Context, documentID string) error
}

// SessionService manages chat sessions.
type SessionService interface {
	// Open creates a session, or returns the existing one for a known ID.
	// An empty ID creates a session with a generated ID.
	Open(ctx context.Context, id string) (*domain.Session, error)

	// List returns all sessions, most recently active first.
	List(ctx context.Context) ([]domain.Session, error)

	// History returns a session's conversation, oldest first.
	History(ctx context.Context, sessionID string) ([]domain.ChatTurn, error)

	// Delete removes a session, its history and its documents.
	Delete(ctx context.Context, sessionID string) error
}
