package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/docuchat/internal/core/domain"
)

func TestParse_TitleFromHeading(t *testing.T) {
	parser := New()

	raw := &domain.RawDocument{
		SessionID: "sess-1",
		Filename:  "guide.md",
		MIMEType:  "text/markdown",
		Content:   []byte("# Getting Started\n\nSome intro text."),
	}

	result, err := parser.Parse(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, domain.FormatMarkdown, doc.Format)
	assert.Equal(t, "Getting Started", doc.Title)
	assert.Contains(t, doc.Content, "Some intro text.")
}

func TestParse_TitleFallsBackToFilename(t *testing.T) {
	parser := New()

	raw := &domain.RawDocument{
		Filename: "release_notes.md",
		Content:  []byte("no heading here"),
	}

	result, err := parser.Parse(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "release notes", result.Document.Title)
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "heading",
			input: "# Title\n\nBody text",
			want:  "Title\n\nBody text",
		},
		{
			name:  "bold and italic",
			input: "This is **bold** and *italic*",
			want:  "This is bold and italic",
		},
		{
			name:  "link keeps text",
			input: "See [the docs](https://example.com) for details",
			want:  "See the docs for details",
		},
		{
			name:  "image removed",
			input: "Before ![alt text](image.png) after",
			want:  "Before  after",
		},
		{
			name:  "code block removed",
			input: "Text\n```go\nfunc main() {}\n```\nMore",
			want:  "Text\n\nMore",
		},
		{
			name:  "inline code removed",
			input: "Run `go test` now",
			want:  "Run  now",
		},
		{
			name:  "blockquote stripped",
			input: "> quoted line",
			want:  "quoted line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdown(tt.input))
		})
	}
}

func TestParse_NilInput(t *testing.T) {
	parser := New()

	_, err := parser.Parse(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
