package driven

import (
	"context"

	"github.com/parchment-labs/docuchat/internal/core/domain"
)

// SessionStore persists chat sessions and their conversation history.
// Backed by SQLite by default; a Redis implementation exists for deployments
// that share sessions between instances.
type SessionStore interface {
	// SaveSession stores or updates a session.
	SaveSession(ctx context.Context, session *domain.Session) error

	// GetSession retrieves a session by ID.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// ListSessions returns all sessions, most recently active first.
	ListSessions(ctx context.Context) ([]domain.Session, error)

	// DeleteSession removes a session and its history.
	DeleteSession(ctx context.Context, id string) error

	// AppendTurns appends conversation turns to a session's history.
	AppendTurns(ctx context.Context, sessionID string, turns ...domain.ChatTurn) error

	// History returns a session's turns, oldest first.
	History(ctx context.Context, sessionID string) ([]domain.ChatTurn, error)
}
