package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/docuchat/internal/adapters/driven/storage/memory"
	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/parsers"
	"github.com/parchment-labs/docuchat/internal/postprocessors"
	"github.com/parchment-labs/docuchat/internal/postprocessors/chunker"
)

func newTestIngestionAgent(docStore *memory.DocumentStore, vectorIndex *mockVectorIndex) *IngestionAgent {
	return NewIngestionAgent(
		parsers.NewDefaultRegistry(),
		postprocessors.NewPipeline(chunker.New(chunker.WithChunkSize(50), chunker.WithOverlap(10))),
		docStore,
		nil,
		vectorIndex,
		&mockEmbeddingService{embedding: []float32{0.1, 0.2, 0.3}},
	)
}

func TestIngestionAgent_Ingest_Success(t *testing.T) {
	docStore := memory.NewDocumentStore()
	vectorIndex := newMockVectorIndex()
	agent := newTestIngestionAgent(docStore, vectorIndex)

	results := agent.Ingest(context.Background(), "sess-1", []domain.RawDocument{
		{Filename: "notes.txt", Content: []byte("Some interesting text that spans more than one chunk when split small.")},
	})

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.NotEmpty(t, results[0].DocumentID)
	assert.Greater(t, results[0].ChunkCount, 0)

	// Document persisted with chunks
	doc, err := docStore.GetDocument(context.Background(), results[0].DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", doc.SessionID)

	chunks, err := docStore.GetChunks(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Len(t, chunks, results[0].ChunkCount)

	// Embeddings stored and indexed
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.Embedding)
		assert.Equal(t, "sess-1", vectorIndex.added[chunk.ID])
	}
}

func TestIngestionAgent_Ingest_InfersMIMEType(t *testing.T) {
	docStore := memory.NewDocumentStore()
	agent := newTestIngestionAgent(docStore, newMockVectorIndex())

	results := agent.Ingest(context.Background(), "sess-1", []domain.RawDocument{
		{Filename: "readme.md", Content: []byte("# Title\n\nbody")},
	})

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	doc, err := docStore.GetDocument(context.Background(), results[0].DocumentID)
	require.NoError(t, err)
	assert.Equal(t, domain.FormatMarkdown, doc.Format)
}

func TestIngestionAgent_Ingest_FailureDoesNotAbortBatch(t *testing.T) {
	docStore := memory.NewDocumentStore()
	agent := newTestIngestionAgent(docStore, newMockVectorIndex())

	results := agent.Ingest(context.Background(), "sess-1", []domain.RawDocument{
		{Filename: "empty.txt", Content: nil},
		{Filename: "good.txt", Content: []byte("valid content")},
	})

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.NotEmpty(t, results[1].DocumentID)
}

func TestIngestionAgent_Ingest_UnsupportedFormat(t *testing.T) {
	docStore := memory.NewDocumentStore()
	agent := newTestIngestionAgent(docStore, newMockVectorIndex())

	results := agent.Ingest(context.Background(), "sess-1", []domain.RawDocument{
		{Filename: "image.png", MIMEType: "image/png", Content: []byte{0x89, 0x50}},
	})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, domain.ErrUnsupportedFormat)
}

func TestIngestionAgent_Ingest_ReuploadReplaces(t *testing.T) {
	ctx := context.Background()
	docStore := memory.NewDocumentStore()
	vectorIndex := newMockVectorIndex()
	agent := newTestIngestionAgent(docStore, vectorIndex)

	first := agent.Ingest(ctx, "sess-1", []domain.RawDocument{
		{Filename: "notes.txt", Content: []byte("original version")},
	})
	require.NoError(t, first[0].Err)

	firstChunks, err := docStore.GetChunks(ctx, first[0].DocumentID)
	require.NoError(t, err)

	second := agent.Ingest(ctx, "sess-1", []domain.RawDocument{
		{Filename: "notes.txt", Content: []byte("revised version")},
	})
	require.NoError(t, second[0].Err)
	assert.NotEqual(t, first[0].DocumentID, second[0].DocumentID)

	// Old document gone, old vectors removed
	_, err = docStore.GetDocument(ctx, first[0].DocumentID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, chunk := range firstChunks {
		assert.Contains(t, vectorIndex.deleted, chunk.ID)
	}

	// Only one document remains for the session
	docs, err := docStore.ListDocuments(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestIngestionAgent_Ingest_RetainsFileWhenStoreConfigured(t *testing.T) {
	docStore := memory.NewDocumentStore()
	fileStore := newMockFileStore()
	agent := NewIngestionAgent(
		parsers.NewDefaultRegistry(),
		postprocessors.NewPipeline(chunker.New()),
		docStore,
		fileStore,
		nil,
		nil,
	)

	results := agent.Ingest(context.Background(), "sess-1", []domain.RawDocument{
		{Filename: "notes.txt", Content: []byte("content")},
	})
	require.NoError(t, results[0].Err)

	assert.Contains(t, fileStore.saved, "sess-1/notes.txt")

	doc, err := docStore.GetDocument(context.Background(), results[0].DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "file://sess-1/notes.txt", doc.URI)
}

func TestIngestionAgent_Ingest_WithoutEmbeddingService(t *testing.T) {
	docStore := memory.NewDocumentStore()
	agent := NewIngestionAgent(
		parsers.NewDefaultRegistry(),
		postprocessors.NewPipeline(chunker.New()),
		docStore,
		nil,
		nil,
		nil,
	)

	results := agent.Ingest(context.Background(), "sess-1", []domain.RawDocument{
		{Filename: "notes.txt", Content: []byte("plain ingestion without semantic indexing")},
	})

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)

	chunks, err := docStore.GetChunks(context.Background(), results[0].DocumentID)
	require.NoError(t, err)
	for _, chunk := range chunks {
		assert.Empty(t, chunk.Embedding)
	}
}
