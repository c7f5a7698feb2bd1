package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
)

func TestLLM_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("unexpected model: %s", req.Model)
		}
		if req.Stream {
			t.Error("expected stream=false")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"response": "Hello there!",
			"done":     true,
		})
	}))
	defer server.Close()

	llm := NewLLM(server.URL, "test-model")
	resp, err := llm.Generate(context.Background(), "Hi", driven.GenerateOptions{Temperature: 0.7})

	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if resp != "Hello there!" {
		t.Errorf("unexpected response: %s", resp)
	}
}

func TestLLM_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(req.Messages))
		}
		if req.Messages[0].Role != "system" {
			t.Errorf("unexpected first role: %s", req.Messages[0].Role)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": "42"},
			"done":    true,
		})
	}))
	defer server.Close()

	llm := NewLLM(server.URL, "test-model")
	resp, err := llm.Chat(context.Background(), []driven.ChatMessage{
		{Role: "system", Content: "You answer questions."},
		{Role: "user", Content: "What is the answer?"},
	}, driven.ChatOptions{})

	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if resp != "42" {
		t.Errorf("unexpected response: %s", resp)
	}
}

func TestLLM_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	llm := NewLLM(server.URL, "missing")
	if _, err := llm.Generate(context.Background(), "Hi", driven.GenerateOptions{}); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestLLM_Defaults(t *testing.T) {
	llm := NewLLM("", "")
	if llm.baseURL != DefaultBaseURL {
		t.Errorf("unexpected base URL: %s", llm.baseURL)
	}
	if llm.ModelName() != DefaultModel {
		t.Errorf("unexpected model: %s", llm.ModelName())
	}
}

func TestEmbedding_EmbedBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Fatalf("expected 2 inputs, got %d", len(req.Input))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		})
	}))
	defer server.Close()

	emb := NewEmbedding(server.URL, "test-embed", 2)
	vectors, err := emb.EmbedBatch(context.Background(), []string{"first", "second"})

	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if vectors[1][0] != 0.3 {
		t.Errorf("unexpected vector value: %f", vectors[1][0])
	}
}

func TestEmbedding_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.1}},
		})
	}))
	defer server.Close()

	emb := NewEmbedding(server.URL, "test-embed", 1)
	if _, err := emb.EmbedBatch(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected error on embedding count mismatch")
	}
}

func TestEmbedding_Defaults(t *testing.T) {
	emb := NewEmbedding("", "", 0)
	if emb.ModelName() != DefaultEmbeddingModel {
		t.Errorf("unexpected model: %s", emb.ModelName())
	}
	if emb.Dimensions() != defaultDimensions {
		t.Errorf("unexpected dimensions: %d", emb.Dimensions())
	}
}
