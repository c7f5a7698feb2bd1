package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/parchment-labs/docuchat/internal/core/domain"
)

// stubProcessor records invocation order and returns predefined chunks.
type stubProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
	calls  *[]string
}

func (s *stubProcessor) Name() string {
	return s.name
}

func (s *stubProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if s.calls != nil {
		*s.calls = append(*s.calls, s.name)
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.chunks != nil {
		return s.chunks, nil
	}
	return chunks, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}

	p.Add(&stubProcessor{name: "chunker"})
	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	p := NewPipeline()

	_, err := p.Process(context.Background(), nil)
	if err == nil {
		t.Error("expected error for nil document")
	}
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	p := NewPipeline()
	doc := &domain.Document{ID: "doc-1", Content: "some content"}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected nil chunks from empty pipeline, got %v", chunks)
	}
}

func TestPipeline_Process_RunsInOrder(t *testing.T) {
	var calls []string

	first := []domain.Chunk{{ID: "chunk-1", Content: "first"}}
	second := []domain.Chunk{
		{ID: "chunk-1", Content: "modified"},
		{ID: "chunk-2", Content: "added"},
	}

	p := NewPipeline(
		&stubProcessor{name: "chunker", chunks: first, calls: &calls},
		&stubProcessor{name: "enricher", chunks: second, calls: &calls},
	)

	doc := &domain.Document{ID: "doc-1", Content: "some content"}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks from last processor, got %d", len(chunks))
	}
	if len(calls) != 2 || calls[0] != "chunker" || calls[1] != "enricher" {
		t.Errorf("expected processors to run in order, got %v", calls)
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	wantErr := errors.New("processor failed")

	p := NewPipeline(&stubProcessor{name: "failing", err: wantErr})

	doc := &domain.Document{ID: "doc-1", Content: "some content"}

	_, err := p.Process(context.Background(), doc)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped processor error, got: %v", err)
	}
}

func TestPipeline_Process_PassthroughProcessor(t *testing.T) {
	initial := []domain.Chunk{{ID: "chunk-1", Content: "text"}}

	p := NewPipeline(
		&stubProcessor{name: "chunker", chunks: initial},
		&stubProcessor{name: "passthrough"}, // Returns received chunks unchanged
	)

	doc := &domain.Document{ID: "doc-1", Content: "some content"}

	chunks, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 1 || chunks[0].ID != "chunk-1" {
		t.Errorf("expected initial chunks to pass through, got %v", chunks)
	}
}
