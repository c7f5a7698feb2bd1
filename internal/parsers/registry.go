package parsers

import (
	"context"
	"sort"
	"sync"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the best matching parser.
// Parsers are matched by MIME type; among matches the highest priority wins.
type Registry struct {
	mu      sync.RWMutex
	parsers []driven.Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a parser to the registry.
func (r *Registry) Register(parser driven.Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, parser)
	sort.SliceStable(r.parsers, func(i, j int) bool {
		return r.parsers[i].Priority() > r.parsers[j].Priority()
	})
}

// Parse transforms a raw document using the best matching parser.
// Returns domain.ErrUnsupportedFormat when no parser handles the MIME type.
func (r *Registry) Parse(ctx context.Context, raw *domain.RawDocument) (*driven.ParseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.parsers {
		for _, mime := range p.SupportedMIMETypes() {
			if mime == raw.MIMEType {
				return p.Parse(ctx, raw)
			}
		}
	}

	return nil, domain.ErrUnsupportedFormat
}

// SupportedMIMETypes returns all MIME types that can be parsed.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var types []string
	for _, p := range r.parsers {
		for _, mime := range p.SupportedMIMETypes() {
			if !seen[mime] {
				seen[mime] = true
				types = append(types, mime)
			}
		}
	}
	sort.Strings(types)
	return types
}
