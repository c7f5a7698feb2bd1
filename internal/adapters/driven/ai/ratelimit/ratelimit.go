// Package ratelimit wraps LLM and embedding services with client-side rate
// limiting so bulk ingestion stays inside provider quotas.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
)

// Ensure the wrappers implement their interfaces.
var (
	_ driven.LLMService       = (*LLM)(nil)
	_ driven.EmbeddingService = (*Embedding)(nil)
)

// LLM wraps an LLMService, waiting on a rate limiter before each request.
type LLM struct {
	inner   driven.LLMService
	limiter *rate.Limiter
}

// NewLLM limits the wrapped service to rps requests per second with the
// given burst.
func NewLLM(inner driven.LLMService, rps float64, burst int) *LLM {
	return &LLM{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (l *LLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.inner.Generate(ctx, prompt, opts)
}

func (l *LLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.inner.Chat(ctx, messages, opts)
}

func (l *LLM) ModelName() string {
	return l.inner.ModelName()
}

func (l *LLM) Close() error {
	return l.inner.Close()
}

// Embedding wraps an EmbeddingService with the same waiting behaviour. A
// batch call counts as one request regardless of size.
type Embedding struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter
}

// NewEmbedding limits the wrapped service to rps requests per second with
// the given burst.
func NewEmbedding(inner driven.EmbeddingService, rps float64, burst int) *Embedding {
	return &Embedding{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (e *Embedding) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return e.inner.Embed(ctx, text)
}

func (e *Embedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return e.inner.EmbedBatch(ctx, texts)
}

func (e *Embedding) Dimensions() int {
	return e.inner.Dimensions()
}

func (e *Embedding) ModelName() string {
	return e.inner.ModelName()
}

func (e *Embedding) Close() error {
	return e.inner.Close()
}
