package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driving"
)

type stubCoordinator struct {
	answer *domain.Answer
	err    error

	lastQuestion string
}

func (c *stubCoordinator) Upload(_ context.Context, sessionID string, _ []domain.RawDocument) (*driving.UploadReport, error) {
	return &driving.UploadReport{SessionID: sessionID}, nil
}

func (c *stubCoordinator) Ask(_ context.Context, _, question string) (*domain.Answer, error) {
	c.lastQuestion = question
	return c.answer, c.err
}

func (c *stubCoordinator) Search(_ context.Context, _, _ string, _ int) (*domain.RetrievalResult, error) {
	return nil, nil
}

func newReadyApp(coord *stubCoordinator) *App {
	app := NewApp(context.Background(), coord, "sess-1")
	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(*App)
}

func TestApp_SubmitSendsQuestion(t *testing.T) {
	coord := &stubCoordinator{answer: &domain.Answer{Text: "42"}}
	app := newReadyApp(coord)

	app.input.SetValue("What is the answer?")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	require.NotNil(t, cmd)
	assert.True(t, app.waiting)
	assert.Empty(t, app.input.Value())
	assert.Contains(t, strings.Join(app.transcript, "\n"), "What is the answer?")
}

func TestApp_EmptyInputIgnored(t *testing.T) {
	app := newReadyApp(&stubCoordinator{})

	app.input.SetValue("   ")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, app.waiting)
}

func TestApp_AnswerAppendsTranscript(t *testing.T) {
	app := newReadyApp(&stubCoordinator{})
	app.waiting = true

	model, _ := app.Update(answerMsg{answer: &domain.Answer{
		Text: "Revenue grew 12%.",
		Citations: []domain.Citation{
			{Filename: "report.pdf"},
			{Filename: "report.pdf"},
		},
	}})
	app = model.(*App)

	assert.False(t, app.waiting)
	joined := strings.Join(app.transcript, "\n")
	assert.Contains(t, joined, "Revenue grew 12%.")
	// Duplicate citations collapse to one source name.
	assert.Equal(t, 1, strings.Count(joined, "report.pdf"))
}

func TestApp_ErrorShownInViewport(t *testing.T) {
	app := newReadyApp(&stubCoordinator{})
	app.waiting = true

	model, _ := app.Update(errMsg{err: errors.New("llm exploded")})
	app = model.(*App)

	assert.False(t, app.waiting)
	assert.Contains(t, app.viewport.View(), "llm exploded")
}

func TestApp_AskCommandCallsCoordinator(t *testing.T) {
	coord := &stubCoordinator{answer: &domain.Answer{Text: "hi"}}
	app := newReadyApp(coord)

	msg := app.ask("hello?")()

	answer, ok := msg.(answerMsg)
	require.True(t, ok)
	assert.Equal(t, "hi", answer.answer.Text)
	assert.Equal(t, "hello?", coord.lastQuestion)
}

func TestApp_QuitKeys(t *testing.T) {
	app := newReadyApp(&stubCoordinator{})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
