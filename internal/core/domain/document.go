package domain

import "time"

// Document represents an uploaded document after text extraction.
// It is the canonical representation before chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SessionID links to the chat session that owns this document.
	SessionID string

	// Filename is the original uploaded file name.
	Filename string

	// URI is the location of the stored raw file on disk.
	URI string

	// Format identifies the source file format (pdf, docx, ...).
	Format string

	// Title is the human-readable title.
	Title string

	// Content is the full extracted text before chunking.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-ingested.
	UpdatedAt time.Time
}

// Chunk represents a retrievable unit within a document.
// Documents are split into chunks for granular retrieval.
// Chunks are immutable once written.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for semantic retrieval.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// RawDocument represents opaque uploaded bytes before parsing.
type RawDocument struct {
	// SessionID links to the chat session the upload belongs to.
	SessionID string

	// Filename is the name of the uploaded file.
	Filename string

	// URI is where the raw bytes were saved on disk, if anywhere.
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains upload-specific key-value pairs.
	Metadata map[string]any
}
