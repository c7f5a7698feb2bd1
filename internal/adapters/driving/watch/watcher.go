// Package watch ingests documents dropped into a directory. Files written
// to the watched directory are uploaded into a fixed session once they stop
// changing.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driving"
	"github.com/parchment-labs/docuchat/internal/logger"
)

// settleDelay is how long a file must stay quiet after its last write
// before it is ingested. Editors and copies produce bursts of writes.
const settleDelay = 500 * time.Millisecond

// Watcher monitors a drop directory and ingests new or changed files.
// Deleting a watched file removes its document when a document service is
// provided.
type Watcher struct {
	coordinator driving.Coordinator
	documents   driving.DocumentService
	sessionID   string
	watcher     *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher that ingests into the given session. documents may
// be nil, in which case file deletions are ignored.
func New(coordinator driving.Coordinator, documents driving.DocumentService, sessionID string) (*Watcher, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidInput
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	return &Watcher{
		coordinator: coordinator,
		documents:   documents,
		sessionID:   sessionID,
		watcher:     fsw,
		pending:     make(map[string]*time.Timer),
	}, nil
}

// Run watches dir until the context is cancelled. Files already present in
// the directory are ingested on startup.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("Watching %s for documents", dir)

	if err := w.ingestExisting(ctx, dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isIngestable(event.Name) {
				continue
			}
			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.cancel(event.Name)
				w.remove(ctx, event.Name)
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				w.schedule(ctx, event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, timer := range w.pending {
		timer.Stop()
	}
	w.pending = make(map[string]*time.Timer)
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) ingestExisting(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if isIngestable(path) {
			w.ingest(ctx, path)
		}
	}
	return nil
}

// schedule arms (or re-arms) the settle timer for a file.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.ingest(ctx, path)
	})
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Reading %s: %v", path, err)
		return
	}

	filename := filepath.Base(path)
	report, err := w.coordinator.Upload(ctx, w.sessionID, []domain.RawDocument{{
		Filename: filename,
		Content:  content,
	}})
	if err != nil {
		logger.Warn("Ingesting %s: %v", filename, err)
		return
	}
	if reason, ok := report.Failed[filename]; ok {
		logger.Warn("Skipped %s: %s", filename, reason)
		return
	}
	logger.Info("Ingested %s (%d chunks)", filename, report.ChunkCount)
}

// cancel drops any pending settle timer for a file.
func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
}

// remove deletes the document previously ingested from path.
func (w *Watcher) remove(ctx context.Context, path string) {
	if w.documents == nil {
		return
	}

	filename := filepath.Base(path)
	docs, err := w.documents.ListBySession(ctx, w.sessionID)
	if err != nil {
		logger.Warn("Listing documents for %s: %v", w.sessionID, err)
		return
	}
	for _, doc := range docs {
		if doc.Filename != filename {
			continue
		}
		if err := w.documents.Delete(ctx, doc.ID); err != nil {
			logger.Warn("Removing %s: %v", filename, err)
			return
		}
		logger.Info("Removed %s", filename)
		return
	}
}

// isIngestable filters out hidden files and unsupported formats.
func isIngestable(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return domain.MIMETypeForFilename(name) != ""
}
