package services

import (
	"context"
	"fmt"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
	"github.com/parchment-labs/docuchat/internal/core/ports/driving"
	"github.com/parchment-labs/docuchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages documents within sessions.
type DocumentService struct {
	docStore    driven.DocumentStore
	fileStore   driven.FileStore
	vectorIndex driven.VectorIndex
}

// NewDocumentService creates a new document service.
// The fileStore and vectorIndex are optional (can be nil).
func NewDocumentService(
	docStore driven.DocumentStore,
	fileStore driven.FileStore,
	vectorIndex driven.VectorIndex,
) *DocumentService {
	return &DocumentService{
		docStore:    docStore,
		fileStore:   fileStore,
		vectorIndex: vectorIndex,
	}
}

// ListBySession returns all documents indexed for a session.
func (s *DocumentService) ListBySession(ctx context.Context, sessionID string) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx, sessionID)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// Delete removes a document, its chunks, its vectors and its stored file.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if s.vectorIndex != nil {
		chunks, err := s.docStore.GetChunks(ctx, documentID)
		if err == nil {
			for _, chunk := range chunks {
				if err := s.vectorIndex.Delete(ctx, chunk.ID); err != nil {
					logger.Warn("Vector index delete for chunk %s failed: %v", chunk.ID, err)
				}
			}
		}
	}

	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if s.fileStore != nil {
		if err := s.fileStore.Delete(ctx, doc.SessionID, doc.Filename); err != nil {
			logger.Warn("Stored file delete for %s failed: %v", doc.Filename, err)
		}
	}

	logger.Info("Deleted document %s (%s)", documentID, doc.Filename)
	return nil
}
