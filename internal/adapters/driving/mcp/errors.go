// Package mcp provides a Model Context Protocol server adapter so AI
// assistants can query uploaded documents through the chatbot pipeline.
package mcp

import "errors"

// ErrMissingCoordinator is returned when the coordinator is not provided.
var ErrMissingCoordinator = errors.New("mcp: coordinator is required")
