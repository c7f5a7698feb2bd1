package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	history  map[string][]domain.ChatTurn
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		history:  make(map[string][]domain.ChatTurn),
	}
}

// SaveSession stores or updates a session.
func (s *SessionStore) SaveSession(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// GetSession retrieves a session by ID.
func (s *SessionStore) GetSession(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

// ListSessions returns all sessions, most recently active first.
func (s *SessionStore) ListSessions(_ context.Context) ([]domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Session, 0, len(s.sessions))
	for id := range s.sessions {
		result = append(result, s.sessions[id])
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// DeleteSession removes a session and its history.
func (s *SessionStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.history, id)
	return nil
}

// AppendTurns appends conversation turns to a session's history.
func (s *SessionStore) AppendTurns(_ context.Context, sessionID string, turns ...domain.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[sessionID] = append(s.history[sessionID], turns...)
	if session, ok := s.sessions[sessionID]; ok {
		session.UpdatedAt = time.Now()
		s.sessions[sessionID] = session
	}
	return nil
}

// History returns a session's turns, oldest first.
func (s *SessionStore) History(_ context.Context, sessionID string) ([]domain.ChatTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.history[sessionID]
	result := make([]domain.ChatTurn, len(turns))
	copy(result, turns)
	return result, nil
}
