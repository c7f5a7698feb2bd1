package parsers

import (
	"github.com/parchment-labs/docuchat/internal/parsers/csv"
	"github.com/parchment-labs/docuchat/internal/parsers/docx"
	"github.com/parchment-labs/docuchat/internal/parsers/html"
	"github.com/parchment-labs/docuchat/internal/parsers/markdown"
	"github.com/parchment-labs/docuchat/internal/parsers/pdf"
	"github.com/parchment-labs/docuchat/internal/parsers/plaintext"
	"github.com/parchment-labs/docuchat/internal/parsers/pptx"
)

// NewDefaultRegistry returns a registry with all built-in parsers registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(csv.New())
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(pptx.New())
	return r
}
