package mcp

import (
	"context"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driving"
)

// mockCoordinator is a mock implementation of driving.Coordinator.
type mockCoordinator struct {
	answer       *domain.Answer
	searchResult *domain.RetrievalResult
	err          error

	lastSessionID string
	lastTopK      int
}

func (m *mockCoordinator) Upload(_ context.Context, sessionID string, _ []domain.RawDocument) (*driving.UploadReport, error) {
	return &driving.UploadReport{SessionID: sessionID}, m.err
}

func (m *mockCoordinator) Ask(_ context.Context, sessionID, _ string) (*domain.Answer, error) {
	m.lastSessionID = sessionID
	return m.answer, m.err
}

func (m *mockCoordinator) Search(_ context.Context, sessionID, _ string, topK int) (*domain.RetrievalResult, error) {
	m.lastSessionID = sessionID
	m.lastTopK = topK
	return m.searchResult, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	docs []domain.Document
	err  error
}

func (m *mockDocumentService) ListBySession(_ context.Context, _ string) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	sessions []domain.Session
	err      error
}

func (m *mockSessionService) Open(_ context.Context, id string) (*domain.Session, error) {
	return &domain.Session{ID: id}, m.err
}

func (m *mockSessionService) List(_ context.Context) ([]domain.Session, error) {
	return m.sessions, m.err
}

func (m *mockSessionService) History(_ context.Context, _ string) ([]domain.ChatTurn, error) {
	return nil, m.err
}

func (m *mockSessionService) Delete(_ context.Context, _ string) error {
	return m.err
}
