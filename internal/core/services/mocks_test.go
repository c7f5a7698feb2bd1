package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	mu        sync.Mutex
	hits      []driven.VectorHit
	added     map[string]string // chunk ID -> session ID
	deleted   []string
	count     int
	searchErr error
	addErr    error
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{added: make(map[string]string)}
}

func (m *mockVectorIndex) Add(_ context.Context, sessionID, chunkID string, _ []float32) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added[chunkID] = sessionID
	return nil
}

func (m *mockVectorIndex) Delete(_ context.Context, chunkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, chunkID)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ string, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Count(_ context.Context, _ string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count > 0 {
		return m.count, nil
	}
	return len(m.added), nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.embedding)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing. Generate
// responses are matched by prompt substring so one mock can serve the
// multi-query, re-rank and condense prompts in a single test.
type mockLLMService struct {
	mu          sync.Mutex
	responses   map[string]string // prompt substring -> response
	chatResult  string
	generateErr error
	chatErr     error
	prompts     []string
	chatCalls   [][]driven.ChatMessage
}

func newMockLLMService() *mockLLMService {
	return &mockLLMService{responses: make(map[string]string)}
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.generateErr != nil {
		return "", m.generateErr
	}
	for substr, response := range m.responses {
		if strings.Contains(prompt, substr) {
			return response, nil
		}
	}
	return "", nil
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.chatCalls = append(m.chatCalls, messages)
	m.mu.Unlock()
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.chatResult, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Close() error {
	return nil
}

// failingParser implements driven.Parser and always fails.
type failingParser struct{}

func (f *failingParser) SupportedMIMETypes() []string { return []string{"text/plain"} }
func (f *failingParser) Priority() int                { return 50 }

func (f *failingParser) Parse(_ context.Context, _ *domain.RawDocument) (*driven.ParseResult, error) {
	return nil, fmt.Errorf("parse exploded")
}

// mockFileStore implements driven.FileStore for testing.
type mockFileStore struct {
	mu      sync.Mutex
	saved   map[string][]byte // "session/filename" -> content
	deleted []string
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{saved: make(map[string][]byte)}
}

func (m *mockFileStore) Save(_ context.Context, sessionID, filename string, content []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := sessionID + "/" + filename
	m.saved[key] = content
	return "file://" + key, nil
}

func (m *mockFileStore) Delete(_ context.Context, sessionID, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, sessionID+"/"+filename)
	return nil
}

func (m *mockFileStore) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, sessionID)
	return nil
}
