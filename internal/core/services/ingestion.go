package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
	"github.com/parchment-labs/docuchat/internal/logger"
)

// embedBatchSize caps the number of chunk texts sent to the embedding
// service in one request.
const embedBatchSize = 64

// IngestionAgent turns raw uploads into parsed, chunked, embedded and
// indexed documents. Re-uploading a file into the same session replaces
// the earlier version.
type IngestionAgent struct {
	registry         driven.ParserRegistry
	pipeline         driven.PostProcessorPipeline
	docStore         driven.DocumentStore
	fileStore        driven.FileStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
}

// NewIngestionAgent creates a new ingestion agent.
// The fileStore, vectorIndex and embeddingService are optional - if nil,
// raw file retention and semantic indexing are disabled respectively.
func NewIngestionAgent(
	registry driven.ParserRegistry,
	pipeline driven.PostProcessorPipeline,
	docStore driven.DocumentStore,
	fileStore driven.FileStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
) *IngestionAgent {
	return &IngestionAgent{
		registry:         registry,
		pipeline:         pipeline,
		docStore:         docStore,
		fileStore:        fileStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
	}
}

// IngestResult reports the outcome of one raw document.
type IngestResult struct {
	Filename   string
	DocumentID string
	ChunkCount int
	Err        error
}

// Ingest processes a batch of raw documents for a session. A failure on
// one document does not abort the batch; each result carries its own
// error.
func (a *IngestionAgent) Ingest(ctx context.Context, sessionID string, raws []domain.RawDocument) []IngestResult {
	logger.Section("Document Ingestion")
	logger.Info("Session %s: ingesting %d file(s)", sessionID, len(raws))

	results := make([]IngestResult, 0, len(raws))
	for i := range raws {
		raw := &raws[i]
		raw.SessionID = sessionID
		if raw.MIMEType == "" {
			raw.MIMEType = domain.MIMETypeForFilename(raw.Filename)
		}

		result := IngestResult{Filename: raw.Filename}
		doc, chunkCount, err := a.ingestOne(ctx, raw)
		if err != nil {
			logger.Warn("Ingest %s failed: %v", raw.Filename, err)
			result.Err = err
		} else {
			result.DocumentID = doc.ID
			result.ChunkCount = chunkCount
			logger.Info("Ingested %s: %d chunk(s)", raw.Filename, chunkCount)
		}
		results = append(results, result)
	}

	return results
}

// ingestOne runs the full pipeline for a single raw document.
func (a *IngestionAgent) ingestOne(ctx context.Context, raw *domain.RawDocument) (*domain.Document, int, error) {
	if raw.Filename == "" {
		return nil, 0, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if len(raw.Content) == 0 {
		return nil, 0, fmt.Errorf("%w: file %q is empty", domain.ErrInvalidInput, raw.Filename)
	}

	// 1. Parse
	parsed, err := a.registry.Parse(ctx, raw)
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", raw.Filename, err)
	}
	doc := parsed.Document

	// 2. Retain the raw upload when a file store is configured
	if a.fileStore != nil {
		uri, err := a.fileStore.Save(ctx, raw.SessionID, raw.Filename, raw.Content)
		if err != nil {
			logger.Warn("File retention for %s failed: %v", raw.Filename, err)
		} else {
			doc.URI = uri
		}
	}

	// 3. Replace any earlier upload of the same file
	if err := a.replaceExisting(ctx, &doc); err != nil {
		return nil, 0, err
	}

	// 4. Chunk
	chunks, err := a.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, 0, fmt.Errorf("chunk %s: %w", raw.Filename, err)
	}
	logger.Debug("Document %s: %d chunk(s)", doc.ID, len(chunks))

	// 5. Embed
	if a.embeddingService != nil && a.vectorIndex != nil && len(chunks) > 0 {
		if err := a.embedChunks(ctx, chunks); err != nil {
			return nil, 0, fmt.Errorf("embed %s: %w", raw.Filename, err)
		}
	}

	// 6. Persist
	if err := a.docStore.SaveDocument(ctx, &doc); err != nil {
		return nil, 0, fmt.Errorf("save document %s: %w", raw.Filename, err)
	}
	if err := a.docStore.SaveChunks(ctx, chunks); err != nil {
		return nil, 0, fmt.Errorf("save chunks %s: %w", raw.Filename, err)
	}

	// 7. Index
	if a.vectorIndex != nil {
		for _, chunk := range chunks {
			if len(chunk.Embedding) == 0 {
				continue
			}
			if err := a.vectorIndex.Add(ctx, doc.SessionID, chunk.ID, chunk.Embedding); err != nil {
				logger.Warn("Vector index add for chunk %s failed: %v", chunk.ID, err)
			}
		}
	}

	return &doc, len(chunks), nil
}

// replaceExisting removes a previously uploaded version of the same file,
// including its chunks and index entries.
func (a *IngestionAgent) replaceExisting(ctx context.Context, doc *domain.Document) error {
	existing, err := a.docStore.GetDocumentByFilename(ctx, doc.SessionID, doc.Filename)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup %s: %w", doc.Filename, err)
	}

	logger.Debug("Replacing earlier upload of %s (document %s)", doc.Filename, existing.ID)

	if a.vectorIndex != nil {
		chunks, err := a.docStore.GetChunks(ctx, existing.ID)
		if err == nil {
			for _, chunk := range chunks {
				if err := a.vectorIndex.Delete(ctx, chunk.ID); err != nil {
					logger.Warn("Vector index delete for chunk %s failed: %v", chunk.ID, err)
				}
			}
		}
	}

	if err := a.docStore.DeleteDocument(ctx, existing.ID); err != nil {
		return fmt.Errorf("delete earlier upload %s: %w", existing.ID, err)
	}

	// Keep the original creation time across re-uploads
	doc.CreatedAt = existing.CreatedAt
	return nil
}

// embedChunks fills in the Embedding field of every chunk, batching
// requests to the embedding service.
func (a *IngestionAgent) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Content)
		}

		embeddings, err := a.embeddingService.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		if len(embeddings) != len(texts) {
			return fmt.Errorf("embedding service returned %d vectors for %d texts", len(embeddings), len(texts))
		}

		for i := range embeddings {
			chunks[start+i].Embedding = embeddings[i]
		}
	}
	return nil
}
