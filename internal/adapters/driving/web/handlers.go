package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driving"
	"github.com/parchment-labs/docuchat/internal/core/services"
)

type uploadResponse struct {
	SessionID  string            `json:"session_id"`
	Ingested   []string          `json:"ingested"`
	Failed     map[string]string `json:"failed,omitempty"`
	ChunkCount int               `json:"chunk_count"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`

	// Query is an accepted alias for Question.
	Query string `json:"query"`
}

func (r chatRequest) question() string {
	if r.Question != "" {
		return r.Question
	}
	return r.Query
}

type chatResponse struct {
	SessionID string     `json:"session_id"`
	Answer    string     `json:"answer"`
	Citations []citation `json:"citations,omitempty"`
}

type citation struct {
	DocumentID string `json:"document_id"`
	ChunkID    string `json:"chunk_id"`
	Filename   string `json:"filename"`
	Snippet    string `json:"snippet"`
}

type searchRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
	TopK      int    `json:"top_k"`
}

type searchResult struct {
	DocumentID string  `json:"document_id"`
	ChunkID    string  `json:"chunk_id"`
	Filename   string  `json:"filename"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
}

type documentInfo struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Format    string `json:"format"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

type sessionInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

type turnInfo struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload accepts multipart file uploads under the "files" field and
// ingests them into the session given by the session_id form value.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form upload")
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		sessionID = r.URL.Query().Get("session_id")
	}
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files in request")
		return
	}

	var raws []domain.RawDocument
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "reading upload: "+err.Error())
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "reading upload: "+err.Error())
			return
		}
		raws = append(raws, domain.RawDocument{
			Filename: header.Filename,
			Content:  content,
		})
	}

	report, err := s.coordinator.Upload(r.Context(), sessionID, raws)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, uploadStatus(report), uploadResponse{
		SessionID:  report.SessionID,
		Ingested:   report.Ingested,
		Failed:     report.Failed,
		ChunkCount: report.ChunkCount,
	})
}

// uploadStatus maps a wholly failed batch to an error status. Partial
// success stays 200 with the per-file failure map in the body.
func uploadStatus(report *driving.UploadReport) int {
	if len(report.Ingested) > 0 || len(report.Failed) == 0 {
		return http.StatusOK
	}
	for _, reason := range report.Failed {
		if !strings.Contains(reason, domain.ErrUnsupportedFormat.Error()) {
			return http.StatusInternalServerError
		}
	}
	return http.StatusUnsupportedMediaType
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	answer, err := s.coordinator.Ask(r.Context(), req.SessionID, req.question())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := chatResponse{
		SessionID: answer.SessionID,
		Answer:    answer.Text,
	}
	for _, c := range answer.Citations {
		resp.Citations = append(resp.Citations, citation{
			DocumentID: c.DocumentID,
			ChunkID:    c.ChunkID,
			Filename:   c.Filename,
			Snippet:    c.Snippet,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TopK <= 0 {
		req.TopK = services.DefaultTopK
	}

	result, err := s.coordinator.Search(r.Context(), req.SessionID, req.Query, req.TopK)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	results := make([]searchResult, 0, len(result.Chunks))
	for _, rc := range result.Chunks {
		results = append(results, searchResult{
			DocumentID: rc.Document.ID,
			ChunkID:    rc.Chunk.ID,
			Filename:   rc.Document.Filename,
			Content:    rc.Chunk.Content,
			Score:      rc.Score,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   result.Query,
		"results": results,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessions.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	infos := make([]sessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, sessionInfo{
			ID:        session.ID,
			Title:     session.Title,
			UpdatedAt: session.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": infos})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	docs, err := s.documents.ListBySession(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	infos := make([]documentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, documentInfo{
			ID:        doc.ID,
			Filename:  doc.Filename,
			Format:    doc.Format,
			Title:     doc.Title,
			CreatedAt: doc.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": infos})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	turns, err := s.sessions.History(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	infos := make([]turnInfo, 0, len(turns))
	for _, turn := range turns {
		infos = append(infos, turnInfo{Role: turn.Role, Content: turn.Content})
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": infos})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documents.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps domain errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrNoDocuments):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, domain.ErrLLMUnavailable), errors.Is(err, domain.ErrVectorIndexUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
