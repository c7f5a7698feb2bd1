// Package memory provides an in-process vector index using brute-force
// cosine similarity. The index is rebuilt from the document store at
// startup, so nothing needs to be persisted separately.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
	"github.com/parchment-labs/docuchat/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	sessionID string
	vector    []float32
	norm      float64
}

// Index is a session-scoped in-memory vector index.
type Index struct {
	mu      sync.RWMutex
	entries map[string]entry // keyed by chunk ID
}

// New creates an empty vector index.
func New() *Index {
	return &Index{
		entries: make(map[string]entry),
	}
}

// Rebuild loads every stored chunk embedding into the index.
// Chunks without embeddings are skipped.
func (idx *Index) Rebuild(ctx context.Context, docStore driven.DocumentStore) error {
	stored, err := docStore.ListAllChunks(ctx)
	if err != nil {
		return fmt.Errorf("list chunks: %w", err)
	}

	loaded := 0
	for _, sc := range stored {
		if len(sc.Chunk.Embedding) == 0 {
			continue
		}
		if err := idx.Add(ctx, sc.SessionID, sc.Chunk.ID, sc.Chunk.Embedding); err != nil {
			return err
		}
		loaded++
	}

	logger.Debug("Vector index rebuilt with %d vector(s)", loaded)
	return nil
}

// Add inserts a vector for the given chunk ID.
func (idx *Index) Add(_ context.Context, sessionID, chunkID string, embedding []float32) error {
	if len(embedding) == 0 {
		return fmt.Errorf("%w: empty embedding", domain.ErrInvalidInput)
	}

	vector := make([]float32, len(embedding))
	copy(vector, embedding)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries[chunkID] = entry{
		sessionID: sessionID,
		vector:    vector,
		norm:      norm(vector),
	}
	return nil
}

// Delete removes a vector from the index.
func (idx *Index) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.entries, chunkID)
	return nil
}

// Search finds the k nearest neighbours to the query within a session.
func (idx *Index) Search(_ context.Context, sessionID string, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, nil
	}

	queryNorm := norm(query)
	if queryNorm == 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, k)
	for chunkID, e := range idx.entries {
		if e.sessionID != sessionID || len(e.vector) != len(query) || e.norm == 0 {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    chunkID,
			Similarity: dot(query, e.vector) / (queryNorm * e.norm),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of vectors indexed for a session.
func (idx *Index) Count(_ context.Context, sessionID string) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	count := 0
	for _, e := range idx.entries {
		if e.sessionID == sessionID {
			count++
		}
	}
	return count, nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
