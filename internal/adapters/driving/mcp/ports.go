package mcp

import (
	"github.com/parchment-labs/docuchat/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Coordinator answers questions and searches documents.
	Coordinator driving.Coordinator

	// Documents lists documents within a session. Optional.
	Documents driving.DocumentService

	// Sessions lists chat sessions. Optional.
	Sessions driving.SessionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Coordinator == nil {
		return ErrMissingCoordinator
	}
	return nil
}
