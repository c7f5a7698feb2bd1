package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCitation_ShortChunk(t *testing.T) {
	rc := RetrievedChunk{
		Chunk:    Chunk{ID: "chunk-1", Content: "short content"},
		Document: Document{ID: "doc-1", Filename: "notes.txt"},
	}

	c := NewCitation(rc)

	assert.Equal(t, "doc-1", c.DocumentID)
	assert.Equal(t, "chunk-1", c.ChunkID)
	assert.Equal(t, "notes.txt", c.Filename)
	assert.Equal(t, "short content", c.Snippet)
}

func TestNewCitation_TruncatesLongChunk(t *testing.T) {
	long := strings.Repeat("a", 500)
	rc := RetrievedChunk{
		Chunk:    Chunk{ID: "chunk-1", Content: long},
		Document: Document{ID: "doc-1", Filename: "big.pdf"},
	}

	c := NewCitation(rc)

	assert.Len(t, c.Snippet, SnippetLength+len("..."))
	assert.True(t, strings.HasSuffix(c.Snippet, "..."))
}

func TestMIMETypeForFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"pdf", "report.pdf", "application/pdf"},
		{"uppercase extension", "REPORT.PDF", "application/pdf"},
		{"docx", "letter.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"pptx", "slides.pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
		{"markdown", "README.md", "text/markdown"},
		{"csv", "data.csv", "text/csv"},
		{"unknown", "binary.exe", ""},
		{"no extension", "Makefile", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MIMETypeForFilename(tt.filename))
		})
	}
}
