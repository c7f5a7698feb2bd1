// Package web exposes the chatbot over HTTP: a JSON API plus an embedded
// single-page chat UI.
package web

import (
	"context"
	"embed"
	"net/http"
	"time"

	"github.com/parchment-labs/docuchat/internal/core/ports/driving"
	"github.com/parchment-labs/docuchat/internal/logger"
)

//go:embed static/index.html
var staticFS embed.FS

// DefaultAddr is the default listen address.
const DefaultAddr = ":8090"

// maxUploadBytes caps a single upload request body.
const maxUploadBytes = 64 << 20

// Server serves the HTTP API and chat UI.
type Server struct {
	coordinator driving.Coordinator
	documents   driving.DocumentService
	sessions    driving.SessionService
	addr        string
}

// NewServer creates a web server. Empty addr falls back to DefaultAddr.
func NewServer(
	coordinator driving.Coordinator,
	documents driving.DocumentService,
	sessions driving.SessionService,
	addr string,
) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		coordinator: coordinator,
		documents:   documents,
		sessions:    sessions,
		addr:        addr,
	}
}

// Routes builds the HTTP handler with all endpoints registered.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}/documents", s.handleListDocuments)
	mux.HandleFunc("GET /api/sessions/{id}/history", s.handleHistory)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("GET /", s.handleIndex)

	return corsMiddleware(loggingMiddleware(mux))
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:        s.addr,
		Handler:     s.Routes(),
		ReadTimeout: 30 * time.Second,
		// Answer generation can take a while on slow providers.
		WriteTimeout: 300 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("Listening on %s", s.addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleIndex serves the embedded chat UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "UI not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}
