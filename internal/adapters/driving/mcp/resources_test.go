package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/docuchat/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	req := &mcp.ReadResourceRequest{}
	req.Params = &mcp.ReadResourceParams{URI: uri}
	return req
}

func TestServer_handleSessionsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists sessions", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Coordinator: &mockCoordinator{},
			Sessions: &mockSessionService{sessions: []domain.Session{
				{ID: "sess-1", Title: "Q3 questions"},
			}},
		})
		require.NoError(t, err)

		result, err := server.handleSessionsResource(ctx, readRequest(uriScheme+"sessions"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "sess-1")
		assert.Contains(t, result.Contents[0].Text, "Q3 questions")
	})

	t.Run("empty when no session service", func(t *testing.T) {
		server, err := NewServer(&Ports{Coordinator: &mockCoordinator{}})
		require.NoError(t, err)

		result, err := server.handleSessionsResource(ctx, readRequest(uriScheme+"sessions"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	server, err := NewServer(&Ports{
		Coordinator: &mockCoordinator{},
		Documents: &mockDocumentService{docs: []domain.Document{
			{ID: "doc-1", Filename: "report.pdf", Format: "pdf"},
		}},
	})
	require.NoError(t, err)

	result, err := server.handleDocumentsResource(ctx,
		readRequest(uriScheme+"sessions/sess-1/documents"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, "report.pdf")
}

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{uriScheme + "sessions/sess-1/documents", "sess-1"},
		{uriScheme + "sessions/sess-1", ""},
		{uriScheme + "documents/doc-1", ""},
		{"http://example.com", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractSessionID(tt.uri), tt.uri)
	}
}
