package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
)

// Ensure Embedding implements the interface.
var _ driven.EmbeddingService = (*Embedding)(nil)

const (
	// DefaultEmbeddingModel is used when no embedding model is configured.
	DefaultEmbeddingModel = "gemini-embedding-001"

	// DefaultDimensions is the requested output dimensionality.
	DefaultDimensions = 768
)

// Embedding is a Gemini-backed embedding service.
type Embedding struct {
	client     *genai.Client
	model      string
	dimensions int
}

// NewEmbedding creates a Gemini embedding client.
func NewEmbedding(ctx context.Context, apiKey, model string, dimensions int) (*Embedding, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Embedding{client: client, model: model, dimensions: dimensions}, nil
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
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(e.dimensions)),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embed: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vectors[i] = emb.Values
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
