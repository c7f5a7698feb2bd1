package driven

import (
	"context"

	"github.com/parchment-labs/docuchat/internal/core/domain"
)

// Parser extracts text from raw documents of specific formats.
// Each parser handles specific MIME types (e.g., PDF, DOCX).
type Parser interface {
	// SupportedMIMETypes returns the MIME types this parser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific parsers should return 50-89.
	// Fallback parsers should return 1-9.
	Priority() int

	// Parse transforms a raw document into a document with Content populated.
	// Chunking is handled by the post-processor pipeline, not the parser.
	Parse(ctx context.Context, raw *domain.RawDocument) (*ParseResult, error)
}

// ParseResult contains the output of parsing.
type ParseResult struct {
	// Document is the parsed document with Content field populated.
	Document domain.Document
}

// ParserRegistry selects the appropriate parser for a document.
// It maintains a priority-ordered list of parsers and dispatches by MIME type.
type ParserRegistry interface {
	// Parse transforms a raw document using the best matching parser.
	// Returns domain.ErrUnsupportedFormat when no parser matches.
	Parse(ctx context.Context, raw *domain.RawDocument) (*ParseResult, error)

	// Register adds a parser to the registry.
	Register(parser Parser)

	// SupportedMIMETypes returns all MIME types that can be parsed.
	SupportedMIMETypes() []string
}
