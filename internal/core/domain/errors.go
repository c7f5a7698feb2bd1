package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a document format no parser handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrSessionNotFound indicates an unknown chat session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoDocuments indicates a session has no indexed documents to search.
	ErrNoDocuments = errors.New("no documents indexed for session")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring LLM (condensing, multi-query, re-ranking) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Retrieval is impossible without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrRateLimited indicates the AI provider's rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
