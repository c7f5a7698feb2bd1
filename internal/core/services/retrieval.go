package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
	"github.com/parchment-labs/docuchat/internal/logger"
)

// DefaultTopK is the number of chunks returned by retrieval.
const DefaultTopK = 5

// maxQueryVariants is the number of reformulations requested from the LLM
// on top of the original question.
const maxQueryVariants = 3

// rrfConstant dampens the influence of high ranks in reciprocal rank
// fusion. 60 is the value from the original RRF paper.
const rrfConstant = 60

const multiQueryPrompt = `You are an AI language model assistant. Your task is to generate %d different versions of the given user question to retrieve relevant documents from a vector database. By generating multiple perspectives on the user question, your goal is to help the user overcome some of the limitations of distance-based similarity search. Provide these alternative questions separated by newlines. Do not number them.

Original question: %s`

const rerankPrompt = `You are a relevance grader. Below is a user question and a numbered list of document excerpts. Rank the excerpts from most to least relevant to the question. Respond with only the excerpt numbers in ranked order, separated by commas. Include at most %d numbers.

Question: %s

Excerpts:
%s`

// RetrievalAgent finds the chunks most relevant to a question within a
// session's documents.
type RetrievalAgent struct {
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
}

// NewRetrievalAgent creates a new retrieval agent.
// The llmService is optional - when nil, multi-query expansion and
// re-ranking are skipped and retrieval degrades to plain vector search.
func NewRetrievalAgent(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	llmService driven.LLMService,
) *RetrievalAgent {
	return &RetrievalAgent{
		docStore:         docStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		llmService:       llmService,
	}
}

// Retrieve returns up to topK chunks relevant to the query, scored and
// ordered best first. Returns domain.ErrNoDocuments when the session has
// nothing indexed.
func (a *RetrievalAgent) Retrieve(ctx context.Context, query domain.Query, topK int) (*domain.RetrievalResult, error) {
	logger.Section("Context Retrieval")
	logger.Debug("Query: %q", query.Text)

	text := strings.TrimSpace(query.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if a.vectorIndex == nil || a.embeddingService == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	if topK <= 0 {
		topK = DefaultTopK
	}

	count, err := a.vectorIndex.Count(ctx, query.SessionID)
	if err != nil {
		return nil, fmt.Errorf("vector index count: %w", err)
	}
	if count == 0 {
		return nil, domain.ErrNoDocuments
	}

	variants := a.expandQuery(ctx, text)
	logger.Debug("Searching with %d query variant(s)", len(variants))

	ranked, err := a.searchAll(ctx, query.SessionID, variants, topK)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return &domain.RetrievalResult{Query: text}, nil
	}

	merged := reciprocalRankFusion(ranked)

	chunks, err := a.hydrate(ctx, query.SessionID, merged, topK*2)
	if err != nil {
		return nil, err
	}

	chunks = a.rerank(ctx, text, chunks, topK)
	if len(chunks) > topK {
		chunks = chunks[:topK]
	}

	logger.Info("Retrieved %d chunk(s)", len(chunks))
	return &domain.RetrievalResult{Query: text, Chunks: chunks}, nil
}

// expandQuery asks the LLM for alternative phrasings of the question.
// The original question is always included. Failures fall back to the
// original question alone.
func (a *RetrievalAgent) expandQuery(ctx context.Context, question string) []string {
	if a.llmService == nil {
		return []string{question}
	}

	prompt := fmt.Sprintf(multiQueryPrompt, maxQueryVariants, question)
	response, err := a.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   512,
		Temperature: 0.7,
	})
	if err != nil {
		logger.Warn("Multi-query expansion failed: %v", err)
		return []string{question}
	}

	variants := []string{question}
	seen := map[string]bool{strings.ToLower(question): true}
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || seen[strings.ToLower(line)] {
			continue
		}
		seen[strings.ToLower(line)] = true
		variants = append(variants, line)
		if len(variants) > maxQueryVariants {
			break
		}
	}
	return variants
}

// searchAll embeds every query variant and searches the vector index in
// parallel. Returns one ranked hit list per variant that succeeded.
func (a *RetrievalAgent) searchAll(ctx context.Context, sessionID string, variants []string, topK int) ([][]driven.VectorHit, error) {
	var mu sync.Mutex
	ranked := make([][]driven.VectorHit, 0, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	for _, variant := range variants {
		g.Go(func() error {
			embedding, err := a.embeddingService.Embed(gctx, variant)
			if err != nil {
				return fmt.Errorf("embed query: %w", err)
			}

			hits, err := a.vectorIndex.Search(gctx, sessionID, embedding, topK)
			if err != nil {
				return fmt.Errorf("vector search: %w", err)
			}

			mu.Lock()
			ranked = append(ranked, hits)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ranked, nil
}

// reciprocalRankFusion merges ranked hit lists. Each chunk scores
// 1/(rrfConstant+rank) summed over the lists it appears in, so chunks
// ranked well by several query variants float to the top.
func reciprocalRankFusion(ranked [][]driven.VectorHit) []driven.VectorHit {
	scores := make(map[string]float64)
	order := make([]string, 0)

	for _, hits := range ranked {
		for rank, hit := range hits {
			if _, ok := scores[hit.ChunkID]; !ok {
				order = append(order, hit.ChunkID)
			}
			scores[hit.ChunkID] += 1.0 / float64(rrfConstant+rank+1)
		}
	}

	merged := make([]driven.VectorHit, 0, len(order))
	for _, chunkID := range order {
		merged = append(merged, driven.VectorHit{ChunkID: chunkID, Similarity: scores[chunkID]})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Similarity > merged[j].Similarity
	})
	return merged
}

// hydrate loads chunk content and owning documents for the top hits.
// Chunks that vanished from the store since indexing are skipped.
func (a *RetrievalAgent) hydrate(ctx context.Context, sessionID string, hits []driven.VectorHit, limit int) ([]domain.RetrievedChunk, error) {
	if limit > len(hits) {
		limit = len(hits)
	}

	docs := make(map[string]*domain.Document)
	chunks := make([]domain.RetrievedChunk, 0, limit)

	for _, hit := range hits[:limit] {
		chunk, err := a.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			logger.Debug("Chunk %s not found during hydration, skipping", hit.ChunkID)
			continue
		}

		doc, ok := docs[chunk.DocumentID]
		if !ok {
			doc, err = a.docStore.GetDocument(ctx, chunk.DocumentID)
			if err != nil {
				logger.Debug("Document %s not found during hydration, skipping", chunk.DocumentID)
				continue
			}
			docs[chunk.DocumentID] = doc
		}

		if doc.SessionID != sessionID {
			continue
		}

		chunks = append(chunks, domain.RetrievedChunk{
			Chunk:    *chunk,
			Document: *doc,
			Score:    hit.Similarity,
		})
	}

	return chunks, nil
}

// rerank asks the LLM to order the candidate chunks by relevance to the
// question. Failures leave the fusion order untouched.
func (a *RetrievalAgent) rerank(ctx context.Context, question string, chunks []domain.RetrievedChunk, topK int) []domain.RetrievedChunk {
	if a.llmService == nil || len(chunks) <= 1 {
		return chunks
	}

	var excerpts strings.Builder
	for i, chunk := range chunks {
		fmt.Fprintf(&excerpts, "%d. %s\n\n", i+1, chunk.Chunk.Content)
	}

	prompt := fmt.Sprintf(rerankPrompt, topK, question, excerpts.String())
	response, err := a.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   128,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Re-ranking failed, keeping fusion order: %v", err)
		return chunks
	}

	order := parseRankedNumbers(response, len(chunks))
	if len(order) == 0 {
		logger.Warn("Re-ranking response unparseable, keeping fusion order")
		return chunks
	}

	reranked := make([]domain.RetrievedChunk, 0, len(order))
	for _, idx := range order {
		reranked = append(reranked, chunks[idx])
	}
	return reranked
}

// parseRankedNumbers extracts 1-based excerpt numbers from an LLM ranking
// response, returning 0-based indices. Out-of-range and duplicate numbers
// are dropped.
func parseRankedNumbers(response string, count int) []int {
	fields := strings.FieldsFunc(response, func(r rune) bool {
		return r == ',' || r == '\n' || r == ' '
	})

	seen := make(map[int]bool)
	var order []int
	for _, field := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 1 || n > count || seen[n] {
			continue
		}
		seen[n] = true
		order = append(order, n-1)
	}
	return order
}
