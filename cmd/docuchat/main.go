// Command docuchat is the document chatbot: web server, terminal chat,
// one-shot queries and an MCP server, all over the same pipeline.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/parchment-labs/docuchat/internal/adapters/driven/ai"
	"github.com/parchment-labs/docuchat/internal/adapters/driven/ai/ratelimit"
	configfile "github.com/parchment-labs/docuchat/internal/adapters/driven/config/file"
	"github.com/parchment-labs/docuchat/internal/adapters/driven/files"
	redisstore "github.com/parchment-labs/docuchat/internal/adapters/driven/storage/redis"
	"github.com/parchment-labs/docuchat/internal/adapters/driven/storage/sqlite"
	vectormem "github.com/parchment-labs/docuchat/internal/adapters/driven/vector/memory"
	"github.com/parchment-labs/docuchat/internal/adapters/driving/cli"
	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
	"github.com/parchment-labs/docuchat/internal/core/services"
	"github.com/parchment-labs/docuchat/internal/logger"
	"github.com/parchment-labs/docuchat/internal/parsers"
	"github.com/parchment-labs/docuchat/internal/postprocessors"
	"github.com/parchment-labs/docuchat/internal/postprocessors/chunker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env file for API keys.
	_ = godotenv.Load()

	ctx := context.Background()

	config, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(config.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	docStore := store.DocumentStore()
	sessionStore, closeSessions, err := newSessionStore(ctx, config, store)
	if err != nil {
		return err
	}
	defer closeSessions()

	fileStore, err := files.NewStore(config.GetString("storage.upload_dir"))
	if err != nil {
		return fmt.Errorf("opening file store: %w", err)
	}

	vectorIndex := vectormem.New()
	if err := vectorIndex.Rebuild(ctx, docStore); err != nil {
		return fmt.Errorf("rebuilding vector index: %w", err)
	}

	aiCfg := ai.Config{
		Provider:            domain.AIProvider(config.GetString("ai.provider")),
		EmbeddingProvider:   domain.AIProvider(config.GetString("ai.embedding_provider")),
		APIKey:              config.GetString("ai.api_key"),
		Model:               config.GetString("ai.model"),
		EmbeddingModel:      config.GetString("ai.embedding_model"),
		EmbeddingDimensions: config.GetInt("ai.embedding_dimensions"),
		OllamaBaseURL:       config.GetString("ai.ollama_url"),
	}

	// LLM and embeddings are optional: without them uploads still index
	// documents for keyword-free vector search once embeddings exist, and
	// retrieval degrades gracefully.
	var llm driven.LLMService
	if l, err := ai.NewLLM(ctx, aiCfg); err != nil {
		logger.Warn("LLM unavailable: %v", err)
	} else {
		llm = ratelimit.NewLLM(l, rps(config, "ai.llm_rps", 2), 4)
		defer llm.Close()
	}

	var embedding driven.EmbeddingService
	if e, err := ai.NewEmbedding(ctx, aiCfg); err != nil {
		logger.Warn("Embeddings unavailable: %v", err)
	} else {
		embedding = ratelimit.NewEmbedding(e, rps(config, "ai.embed_rps", 5), 10)
		defer embedding.Close()
	}

	registry := parsers.NewDefaultRegistry()
	pipeline := postprocessors.NewPipeline(chunker.New())

	ingestion := services.NewIngestionAgent(registry, pipeline, docStore, fileStore, vectorIndex, embedding)
	retrieval := services.NewRetrievalAgent(docStore, vectorIndex, embedding, llm)
	response := services.NewLLMResponseAgent(llm)
	coordinator := services.NewCoordinatorAgent(ingestion, retrieval, response, sessionStore)

	documents := services.NewDocumentService(docStore, fileStore, vectorIndex)
	sessions := services.NewSessionService(sessionStore, documents)

	cli.SetServices(coordinator, documents, sessions)
	return cli.Execute()
}

// newSessionStore picks Redis when sessions.redis_url is configured,
// otherwise sessions live in SQLite next to the documents.
func newSessionStore(ctx context.Context, config *configfile.ConfigStore, store *sqlite.Store) (driven.SessionStore, func(), error) {
	url := config.GetString("sessions.redis_url")
	if url == "" {
		return store.SessionStore(), func() {}, nil
	}

	rs, err := redisstore.NewSessionStore(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting session store: %w", err)
	}
	logger.Info("Using Redis session store")
	return rs, func() { _ = rs.Close() }, nil
}

func rps(config *configfile.ConfigStore, key string, fallback float64) float64 {
	if v := config.GetInt(key); v > 0 {
		return float64(v)
	}
	return fallback
}
