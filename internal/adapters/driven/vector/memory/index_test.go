package memory

import (
	"context"
	"testing"

	storagemem "github.com/parchment-labs/docuchat/internal/adapters/driven/storage/memory"
	"github.com/parchment-labs/docuchat/internal/core/domain"
)

func TestIndex_SearchRanksBySimilarity(t *testing.T) {
	idx := New()
	ctx := context.Background()

	if err := idx.Add(ctx, "sess-1", "chunk-a", []float32{1, 0, 0}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := idx.Add(ctx, "sess-1", "chunk-b", []float32{0.9, 0.1, 0}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := idx.Add(ctx, "sess-1", "chunk-c", []float32{0, 1, 0}); err != nil {
		t.Fatalf("add: %v", err)
	}

	hits, err := idx.Search(ctx, "sess-1", []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ChunkID != "chunk-a" {
		t.Errorf("expected chunk-a first, got %s", hits[0].ChunkID)
	}
	if hits[1].ChunkID != "chunk-b" {
		t.Errorf("expected chunk-b second, got %s", hits[1].ChunkID)
	}
	if hits[0].Similarity < hits[1].Similarity {
		t.Error("expected descending similarity order")
	}
}

func TestIndex_SearchIsSessionScoped(t *testing.T) {
	idx := New()
	ctx := context.Background()

	idx.Add(ctx, "sess-1", "chunk-a", []float32{1, 0})
	idx.Add(ctx, "sess-2", "chunk-b", []float32{1, 0})

	hits, err := idx.Search(ctx, "sess-1", []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(hits) != 1 || hits[0].ChunkID != "chunk-a" {
		t.Errorf("expected only sess-1 vectors, got %v", hits)
	}
}

func TestIndex_DimensionMismatchSkipped(t *testing.T) {
	idx := New()
	ctx := context.Background()

	idx.Add(ctx, "sess-1", "chunk-a", []float32{1, 0, 0})
	idx.Add(ctx, "sess-1", "chunk-b", []float32{1, 0})

	hits, err := idx.Search(ctx, "sess-1", []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].ChunkID != "chunk-a" {
		t.Errorf("expected mismatched vector to be skipped, got %v", hits)
	}
}

func TestIndex_Delete(t *testing.T) {
	idx := New()
	ctx := context.Background()

	idx.Add(ctx, "sess-1", "chunk-a", []float32{1, 0})
	if err := idx.Delete(ctx, "chunk-a"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	count, err := idx.Count(ctx, "sess-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty index after delete, got %d", count)
	}
}

func TestIndex_AddEmptyEmbedding(t *testing.T) {
	idx := New()

	err := idx.Add(context.Background(), "sess-1", "chunk-a", nil)
	if err == nil {
		t.Error("expected error for empty embedding")
	}
}

func TestIndex_Rebuild(t *testing.T) {
	ctx := context.Background()
	docStore := storagemem.NewDocumentStore()

	doc := &domain.Document{ID: "doc-1", SessionID: "sess-1", Filename: "a.txt"}
	if err := docStore.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("save document: %v", err)
	}
	chunks := []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "one", Position: 0, Embedding: []float32{1, 0}},
		{ID: "chunk-2", DocumentID: "doc-1", Content: "two", Position: 1}, // no embedding
	}
	if err := docStore.SaveChunks(ctx, chunks); err != nil {
		t.Fatalf("save chunks: %v", err)
	}

	idx := New()
	if err := idx.Rebuild(ctx, docStore); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	count, err := idx.Count(ctx, "sess-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 vector after rebuild, got %d", count)
	}
}
