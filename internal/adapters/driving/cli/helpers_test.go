package cli

import (
	"bytes"
	"context"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driving"
)

// fakeCoordinator records invocations for command tests.
type fakeCoordinator struct {
	uploadReport *driving.UploadReport
	answer       *domain.Answer
	searchResult *domain.RetrievalResult
	err          error

	lastSessionID string
	lastQuestion  string
	uploaded      []domain.RawDocument
}

func (c *fakeCoordinator) Upload(_ context.Context, sessionID string, files []domain.RawDocument) (*driving.UploadReport, error) {
	c.lastSessionID = sessionID
	c.uploaded = files
	if c.err != nil {
		return nil, c.err
	}
	if c.uploadReport != nil {
		return c.uploadReport, nil
	}
	report := &driving.UploadReport{SessionID: sessionID}
	for _, f := range files {
		report.Ingested = append(report.Ingested, f.Filename)
	}
	return report, nil
}

func (c *fakeCoordinator) Ask(_ context.Context, sessionID, question string) (*domain.Answer, error) {
	c.lastSessionID = sessionID
	c.lastQuestion = question
	return c.answer, c.err
}

func (c *fakeCoordinator) Search(_ context.Context, sessionID, _ string, _ int) (*domain.RetrievalResult, error) {
	c.lastSessionID = sessionID
	if c.err != nil {
		return nil, c.err
	}
	if c.searchResult != nil {
		return c.searchResult, nil
	}
	return &domain.RetrievalResult{}, nil
}

type fakeSessionService struct {
	sessions []domain.Session
	history  []domain.ChatTurn
	deleted  []string
}

func (s *fakeSessionService) Open(_ context.Context, id string) (*domain.Session, error) {
	return &domain.Session{ID: id}, nil
}

func (s *fakeSessionService) List(_ context.Context) ([]domain.Session, error) {
	return s.sessions, nil
}

func (s *fakeSessionService) History(_ context.Context, _ string) ([]domain.ChatTurn, error) {
	return s.history, nil
}

func (s *fakeSessionService) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type fakeDocumentService struct {
	docs    []domain.Document
	deleted []string
}

func (d *fakeDocumentService) ListBySession(_ context.Context, _ string) ([]domain.Document, error) {
	return d.docs, nil
}

func (d *fakeDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (d *fakeDocumentService) Delete(_ context.Context, id string) error {
	d.deleted = append(d.deleted, id)
	return nil
}

// setupTestServices wires fakes into the package-level service vars and
// returns a cleanup that restores the previous wiring.
func setupTestServices(coord *fakeCoordinator) func() {
	prevCoord := coordinator
	prevDocs := documentService
	prevSessions := sessionService

	coordinator = coord
	documentService = &fakeDocumentService{}
	sessionService = &fakeSessionService{}

	return func() {
		coordinator = prevCoord
		documentService = prevDocs
		sessionService = prevSessions
	}
}

// execute runs the root command with args and returns combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
