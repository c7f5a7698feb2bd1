// Package files stores raw uploaded files on disk, one directory per
// session.
package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.FileStore = (*Store)(nil)

// Store is a disk-backed implementation of driven.FileStore.
type Store struct {
	root string
}

// NewStore creates a file store rooted at dir. If dir is empty, defaults
// to ~/.docuchat/uploads.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".docuchat", "uploads")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &Store{root: dir}, nil
}

// Root returns the upload root directory.
func (s *Store) Root() string {
	return s.root
}

// Save writes the raw bytes of an upload and returns a file URI.
func (s *Store) Save(_ context.Context, sessionID, filename string, content []byte) (string, error) {
	path, err := s.path(sessionID, filename)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("creating session directory: %w", err)
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return "file://" + path, nil
}

// Delete removes a stored file. Missing files are not an error.
func (s *Store) Delete(_ context.Context, sessionID, filename string) error {
	path, err := s.path(sessionID, filename)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// DeleteSession removes every file stored for a session.
func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	if err := validateComponent(sessionID); err != nil {
		return err
	}

	if err := os.RemoveAll(filepath.Join(s.root, sessionID)); err != nil {
		return fmt.Errorf("removing session directory: %w", err)
	}
	return nil
}

// path resolves the on-disk location for an upload, rejecting names that
// would escape the store root.
func (s *Store) path(sessionID, filename string) (string, error) {
	if err := validateComponent(sessionID); err != nil {
		return "", err
	}

	base := filepath.Base(filename)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: invalid filename %q", domain.ErrInvalidInput, filename)
	}

	return filepath.Join(s.root, sessionID, base), nil
}

// validateComponent rejects path components that could traverse out of
// the root.
func validateComponent(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid path component %q", domain.ErrInvalidInput, name)
	}
	return nil
}
