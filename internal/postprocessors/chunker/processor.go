// Package chunker provides an overlapping text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// separators, in preference order, used to find a natural break point
// near the end of a chunk.
var separators = []string{"\n\n", "\n", ". ", " "}

// Processor splits document content into overlapping chunks, preferring
// paragraph and sentence boundaries over hard cuts.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	content := doc.Content
	contentLen := len(content)

	estimatedChunks := (contentLen / (p.chunkSize - p.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimatedChunks)

	position := 0
	start := 0

	for start < contentLen {
		end := start + p.chunkSize
		if end >= contentLen {
			end = contentLen
		} else {
			end = p.breakPoint(content, start, end)
		}

		chunkContent := strings.TrimSpace(content[start:end])
		if chunkContent != "" {
			chunks = append(chunks, domain.Chunk{
				ID:         uuid.New().String(),
				DocumentID: doc.ID,
				Content:    chunkContent,
				Position:   position,
				Metadata:   make(map[string]any),
			})
			position++
		}

		if end >= contentLen {
			break
		}

		// Step back by the overlap so adjacent chunks share context
		next := end - p.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks, nil
}

// breakPoint searches backwards from end for the closest separator so a
// chunk ends on a natural boundary. Only the last quarter of the chunk is
// searched; a hard cut at end is the fallback.
func (p *Processor) breakPoint(content string, start, end int) int {
	window := content[start:end]
	limit := len(window) - p.chunkSize/4

	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx > limit && idx > 0 {
			return start + idx + len(sep)
		}
	}

	return end
}
