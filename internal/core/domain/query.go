package domain

import "time"

// ChatTurn is a single message in the conversation history.
type ChatTurn struct {
	// Role is "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Query is a user question scoped to a session. Ephemeral, created per request.
type Query struct {
	// Text is the question as the user asked it.
	Text string

	// SessionID identifies the conversation the question belongs to.
	SessionID string

	// History is the prior conversation, oldest first.
	History []ChatTurn

	// AskedAt is when the query was received.
	AskedAt time.Time
}

// RetrievedChunk is a chunk with its relevance score, produced by retrieval.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Document is the chunk's parent document.
	Document Document

	// Score is the relevance score. Higher is more relevant.
	Score float64
}

// RetrievalResult is the ordered output of the retrieval step for one query.
type RetrievalResult struct {
	// Query is the question the chunks were retrieved for, after any
	// condensing or expansion.
	Query string

	// Chunks is ordered by descending relevance.
	Chunks []RetrievedChunk
}
