package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/docuchat/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_CreatesSchema(t *testing.T) {
	store := newTestStore(t)
	assert.NotEmpty(t, store.Path())

	// Migrations are idempotent: reopening the same directory works
	again, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocumentStore()

	doc := &domain.Document{
		ID:        "doc-1",
		SessionID: "sess-1",
		Filename:  "report.pdf",
		URI:       "file:///uploads/sess-1/report.pdf",
		Format:    domain.FormatPDF,
		Title:     "Quarterly Report",
		Content:   "full text",
		Metadata:  map[string]any{"pages": float64(3)},
	}
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, "report.pdf", got.Filename)
	assert.Equal(t, domain.FormatPDF, got.Format)
	assert.Equal(t, "Quarterly Report", got.Title)
	assert.Equal(t, float64(3), got.Metadata["pages"])
	assert.False(t, got.CreatedAt.IsZero())
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	docs := newTestStore(t).DocumentStore()

	_, err := docs.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_GetDocumentByFilename(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocumentStore()

	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		ID: "doc-1", SessionID: "sess-1", Filename: "a.txt",
	}))

	got, err := docs.GetDocumentByFilename(ctx, "sess-1", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)

	_, err = docs.GetDocumentByFilename(ctx, "sess-2", "a.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ChunksRoundTrip(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocumentStore()

	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		ID: "doc-1", SessionID: "sess-1", Filename: "a.txt",
	}))

	chunks := []domain.Chunk{
		{ID: "chunk-2", DocumentID: "doc-1", Content: "second", Position: 1, Embedding: []float32{0.5, -1.25}},
		{ID: "chunk-1", DocumentID: "doc-1", Content: "first", Position: 0, Embedding: []float32{1.5, 2.5}},
	}
	require.NoError(t, docs.SaveChunks(ctx, chunks))

	got, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by position regardless of insert order
	assert.Equal(t, "chunk-1", got[0].ID)
	assert.Equal(t, []float32{1.5, 2.5}, got[0].Embedding)
	assert.Equal(t, "chunk-2", got[1].ID)
	assert.Equal(t, []float32{0.5, -1.25}, got[1].Embedding)

	single, err := docs.GetChunk(ctx, "chunk-2")
	require.NoError(t, err)
	assert.Equal(t, "second", single.Content)
}

func TestDocumentStore_DeleteCascadesToChunks(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocumentStore()

	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		ID: "doc-1", SessionID: "sess-1", Filename: "a.txt",
	}))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "text", Position: 0},
	}))

	require.NoError(t, docs.DeleteDocument(ctx, "doc-1"))

	_, err := docs.GetChunk(ctx, "chunk-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListAllChunks(t *testing.T) {
	ctx := context.Background()
	docs := newTestStore(t).DocumentStore()

	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		ID: "doc-1", SessionID: "sess-1", Filename: "a.txt",
	}))
	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		ID: "doc-2", SessionID: "sess-2", Filename: "b.txt",
	}))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "one", Position: 0, Embedding: []float32{1}},
	}))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-2", DocumentID: "doc-2", Content: "two", Position: 0, Embedding: []float32{2}},
	}))

	stored, err := docs.ListAllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	sessions := map[string]string{}
	for _, sc := range stored {
		sessions[sc.Chunk.ID] = sc.SessionID
	}
	assert.Equal(t, "sess-1", sessions["chunk-1"])
	assert.Equal(t, "sess-2", sessions["chunk-2"])
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	sessions := newTestStore(t).SessionStore()

	require.NoError(t, sessions.SaveSession(ctx, &domain.Session{ID: "sess-1", Title: "First"}))

	got, err := sessions.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)

	_, err = sessions.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_History(t *testing.T) {
	ctx := context.Background()
	sessions := newTestStore(t).SessionStore()

	require.NoError(t, sessions.SaveSession(ctx, &domain.Session{ID: "sess-1"}))
	require.NoError(t, sessions.AppendTurns(ctx, "sess-1",
		domain.ChatTurn{Role: domain.RoleUser, Content: "hello"},
		domain.ChatTurn{Role: domain.RoleAssistant, Content: "hi there"},
	))
	require.NoError(t, sessions.AppendTurns(ctx, "sess-1",
		domain.ChatTurn{Role: domain.RoleUser, Content: "follow up"},
	))

	history, err := sessions.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Equal(t, "follow up", history[2].Content)
}

func TestSessionStore_DeleteCascadesToTurns(t *testing.T) {
	ctx := context.Background()
	sessions := newTestStore(t).SessionStore()

	require.NoError(t, sessions.SaveSession(ctx, &domain.Session{ID: "sess-1"}))
	require.NoError(t, sessions.AppendTurns(ctx, "sess-1",
		domain.ChatTurn{Role: domain.RoleUser, Content: "hello"},
	))

	require.NoError(t, sessions.DeleteSession(ctx, "sess-1"))

	history, err := sessions.History(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSessionStore_ListOrderedByActivity(t *testing.T) {
	ctx := context.Background()
	sessions := newTestStore(t).SessionStore()

	require.NoError(t, sessions.SaveSession(ctx, &domain.Session{ID: "sess-old"}))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, sessions.SaveSession(ctx, &domain.Session{ID: "sess-new"}))

	list, err := sessions.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "sess-new", list[0].ID)
}
