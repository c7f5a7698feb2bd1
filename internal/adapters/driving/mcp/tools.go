package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	SessionID string `json:"session_id" jsonschema:"the chat session whose documents to answer from"`
	Question  string `json:"question" jsonschema:"the question to answer"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string           `json:"answer"`
	Citations []CitationOutput `json:"citations,omitempty"`
}

// CitationOutput identifies a source the answer drew on.
type CitationOutput struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Snippet    string `json:"snippet"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	SessionID string `json:"session_id" jsonschema:"the chat session whose documents to search"`
	Query     string `json:"query" jsonschema:"the search query"`
	TopK      int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved chunk.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the documents uploaded to a chat session",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Retrieve document chunks relevant to a query, without generating an answer",
	}, s.handleSearch)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Coordinator.Ask(ctx, input.SessionID, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{Answer: answer.Text}
	for _, c := range answer.Citations {
		output.Citations = append(output.Citations, CitationOutput{
			DocumentID: c.DocumentID,
			Filename:   c.Filename,
			Snippet:    c.Snippet,
		})
	}
	return nil, output, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = 5
	}

	result, err := s.ports.Coordinator.Search(ctx, input.SessionID, input.Query, topK)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(result.Chunks)),
		Count:   len(result.Chunks),
	}
	for i, rc := range result.Chunks {
		output.Results[i] = SearchResultOutput{
			DocumentID: rc.Document.ID,
			Filename:   rc.Document.Filename,
			Content:    rc.Chunk.Content,
			Score:      rc.Score,
		}
	}
	return nil, output, nil
}
