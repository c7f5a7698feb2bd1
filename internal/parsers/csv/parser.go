package csv

import (
	"context"
	encsv "encoding/csv"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles CSV documents. Each row is rendered as "header: value"
// pairs so the text stays meaningful after chunking.
type Parser struct{}

// New creates a new CSV parser.
func New() *Parser {
	return &Parser{}
}

// SupportedMIMETypes returns the MIME types this parser handles.
func (p *Parser) SupportedMIMETypes() []string {
	return []string{"text/csv"}
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 50 // Format-specific parser, higher than plaintext
}

// Parse converts a CSV document to a parsed document.
func (p *Parser) Parse(_ context.Context, raw *domain.RawDocument) (*driven.ParseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content, err := renderCSV(raw.Content)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	doc := domain.Document{
		ID:        uuid.New().String(),
		SessionID: raw.SessionID,
		Filename:  raw.Filename,
		URI:       raw.URI,
		Format:    domain.FormatCSV,
		Title:     extractTitle(raw.Filename),
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType

	return &driven.ParseResult{Document: doc}, nil
}

// renderCSV converts CSV rows into labelled text lines.
// The first row is treated as the header.
func renderCSV(data []byte) (string, error) {
	reader := encsv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", nil
	}

	header := records[0]
	var sb strings.Builder

	for _, row := range records[1:] {
		pairs := make([]string, 0, len(row))
		for i, field := range row {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			if i < len(header) && strings.TrimSpace(header[i]) != "" {
				pairs = append(pairs, strings.TrimSpace(header[i])+": "+field)
			} else {
				pairs = append(pairs, field)
			}
		}
		if len(pairs) > 0 {
			sb.WriteString(strings.Join(pairs, ", "))
			sb.WriteString("\n")
		}
	}

	// Header-only files fall back to the raw header line
	if sb.Len() == 0 {
		return strings.Join(header, ", "), nil
	}

	return strings.TrimSpace(sb.String()), nil
}

// extractTitle extracts a human-readable title from a file name.
func extractTitle(filename string) string {
	name := filepath.Base(filename)
	ext := filepath.Ext(name)
	if ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
