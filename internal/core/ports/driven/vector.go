package driven

import "context"

// VectorIndex provides semantic similarity search over chunk embeddings.
// Vectors are scoped to a session so one conversation never retrieves
// another's documents.
type VectorIndex interface {
	// Add inserts a vector for the given chunk ID.
	Add(ctx context.Context, sessionID, chunkID string, embedding []float32) error

	// Delete removes a vector from the index.
	Delete(ctx context.Context, chunkID string) error

	// Search finds the k nearest neighbours to the query vector within a session.
	Search(ctx context.Context, sessionID string, query []float32, k int) ([]VectorHit, error)

	// Count returns the number of vectors indexed for a session.
	Count(ctx context.Context, sessionID string) (int, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
