package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
)

// Ensure Embedding implements the interface.
var _ driven.EmbeddingService = (*Embedding)(nil)

const (
	// DefaultEmbeddingModel is used when no embedding model is configured.
	DefaultEmbeddingModel = openai.EmbeddingModelTextEmbedding3Small

	// text-embedding-3-small produces 1536-dimensional vectors.
	defaultDimensions = 1536
)

// Embedding is an OpenAI-backed embedding service.
type Embedding struct {
	client     openai.Client
	model      string
	dimensions int
}

// NewEmbedding creates an OpenAI embedding client.
func NewEmbedding(apiKey, model string, dimensions int) (*Embedding, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}
	if dimensions <= 0 {
		dimensions = defaultDimensions
	}

	return &Embedding{
		client:     openai.NewClient(option.WithAPIKey(apiKey)),
		model:      model,
		dimensions: dimensions,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (e *Embedding) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one API call.
func (e *Embedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.model,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embed: got %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		vec := make([]float32, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (e *Embedding) Dimensions() int {
	return e.dimensions
}

// ModelName returns the configured model name.
func (e *Embedding) ModelName() string {
	return e.model
}

// Close releases resources.
func (e *Embedding) Close() error {
	return nil
}
