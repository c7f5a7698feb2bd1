package driven

import "context"

// FileStore persists raw uploaded files on disk, grouped by session.
type FileStore interface {
	// Save writes the raw bytes of an upload and returns its URI.
	Save(ctx context.Context, sessionID, filename string, content []byte) (string, error)

	// Delete removes a stored file.
	Delete(ctx context.Context, sessionID, filename string) error

	// DeleteSession removes every file stored for a session.
	DeleteSession(ctx context.Context, sessionID string) error
}
