package domain

// Citation points at a chunk that supported an answer.
// Citations always reference chunks returned by the preceding retrieval step.
type Citation struct {
	// DocumentID is the cited document.
	DocumentID string

	// ChunkID is the specific chunk.
	ChunkID string

	// Filename is the source document's original file name.
	Filename string

	// Snippet is a short excerpt of the cited chunk.
	Snippet string
}

// Answer is the generated response to a query.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Citations lists the sources the answer drew on, in retrieval order.
	Citations []Citation

	// SessionID identifies the conversation the answer belongs to.
	SessionID string

	// TraceID correlates the answer with the agent exchange that produced it.
	TraceID string
}

// SnippetLength is the number of characters of chunk content quoted in a citation.
const SnippetLength = 100

// NewCitation builds a citation for a retrieved chunk.
func NewCitation(rc RetrievedChunk) Citation {
	snippet := rc.Chunk.Content
	if len(snippet) > SnippetLength {
		snippet = snippet[:SnippetLength] + "..."
	}
	return Citation{
		DocumentID: rc.Document.ID,
		ChunkID:    rc.Chunk.ID,
		Filename:   rc.Document.Filename,
		Snippet:    snippet,
	}
}
