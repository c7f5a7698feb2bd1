package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
	"github.com/parchment-labs/docuchat/internal/core/ports/driving"
	"github.com/parchment-labs/docuchat/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService manages chat sessions and their lifecycle.
type SessionService struct {
	sessionStore driven.SessionStore
	documents    driving.DocumentService
}

// NewSessionService creates a new session service.
// The documents service is used to cascade deletes; it may be nil, in
// which case deleting a session leaves its documents behind.
func NewSessionService(sessionStore driven.SessionStore, documents driving.DocumentService) *SessionService {
	return &SessionService{
		sessionStore: sessionStore,
		documents:    documents,
	}
}

// Open creates a session, or returns the existing one for a known ID.
// An empty ID creates a session with a generated ID.
func (s *SessionService) Open(ctx context.Context, id string) (*domain.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.New().String()
	} else {
		session, err := s.sessionStore.GetSession(ctx, id)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("get session: %w", err)
		}
	}

	now := time.Now()
	session := &domain.Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessionStore.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	logger.Debug("Opened session %s", id)
	return session, nil
}

// List returns all sessions, most recently active first.
func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	return s.sessionStore.ListSessions(ctx)
}

// History returns a session's conversation, oldest first.
func (s *SessionService) History(ctx context.Context, sessionID string) ([]domain.ChatTurn, error) {
	return s.sessionStore.History(ctx, sessionID)
}

// Delete removes a session, its history and its documents.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	if s.documents != nil {
		docs, err := s.documents.ListBySession(ctx, sessionID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("list session documents: %w", err)
		}
		for _, doc := range docs {
			if err := s.documents.Delete(ctx, doc.ID); err != nil {
				logger.Warn("Deleting document %s failed: %v", doc.ID, err)
			}
		}
	}

	if err := s.sessionStore.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	logger.Info("Deleted session %s", sessionID)
	return nil
}
