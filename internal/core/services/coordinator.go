package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
	"github.com/parchment-labs/docuchat/internal/core/ports/driving"
	"github.com/parchment-labs/docuchat/internal/logger"
)

// Ensure CoordinatorAgent implements the interface.
var _ driving.Coordinator = (*CoordinatorAgent)(nil)

// CoordinatorAgent routes work between the ingestion, retrieval and
// response agents. Every exchange is a sequence of typed messages sharing
// one trace ID, so a request can be followed across agents in the logs.
type CoordinatorAgent struct {
	ingestion    *IngestionAgent
	retrieval    *RetrievalAgent
	response     *LLMResponseAgent
	sessionStore driven.SessionStore
}

// NewCoordinatorAgent creates a new coordinator.
func NewCoordinatorAgent(
	ingestion *IngestionAgent,
	retrieval *RetrievalAgent,
	response *LLMResponseAgent,
	sessionStore driven.SessionStore,
) *CoordinatorAgent {
	return &CoordinatorAgent{
		ingestion:    ingestion,
		retrieval:    retrieval,
		response:     response,
		sessionStore: sessionStore,
	}
}

// Upload ingests a batch of raw documents into a session. Files that fail
// are reported in the result without aborting the rest of the batch.
func (c *CoordinatorAgent) Upload(ctx context.Context, sessionID string, raws []domain.RawDocument) (*driving.UploadReport, error) {
	if len(raws) == 0 {
		return nil, fmt.Errorf("%w: no files to upload", domain.ErrInvalidInput)
	}

	if err := c.ensureSession(ctx, sessionID); err != nil {
		return nil, err
	}

	msg := domain.NewAgentMessage(domain.AgentCoordinator, domain.AgentIngestion,
		domain.MessageIngestRequest, domain.AgentPayload{
			SessionID: sessionID,
			Documents: raws,
		})
	logger.Trace(msg.TraceID, "%s -> %s: %s (%d file(s))",
		msg.Sender, msg.Receiver, msg.Type, len(raws))

	results := c.ingestion.Ingest(ctx, sessionID, msg.Payload.Documents)

	reply := msg.Reply(domain.MessageIngestResponse, domain.AgentPayload{SessionID: sessionID})
	logger.Trace(reply.TraceID, "%s -> %s: %s", reply.Sender, reply.Receiver, reply.Type)

	report := &driving.UploadReport{
		SessionID: sessionID,
		Failed:    make(map[string]string),
		TraceID:   msg.TraceID,
	}
	for _, result := range results {
		if result.Err != nil {
			report.Failed[result.Filename] = result.Err.Error()
			continue
		}
		report.Ingested = append(report.Ingested, result.Filename)
		report.ChunkCount += result.ChunkCount
	}

	return report, nil
}

// Ask answers a question against a session's documents. The conversation
// history is loaded, the question condensed, context retrieved and the
// answer generated and recorded back into the history.
func (c *CoordinatorAgent) Ask(ctx context.Context, sessionID, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	if err := c.ensureSession(ctx, sessionID); err != nil {
		return nil, err
	}

	history, err := c.sessionStore.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	// Condense
	msg := domain.NewAgentMessage(domain.AgentCoordinator, domain.AgentLLMResponse,
		domain.MessageCondenseRequest, domain.AgentPayload{
			SessionID: sessionID,
			Query:     question,
			History:   history,
		})
	traceID := msg.TraceID
	logger.Trace(traceID, "%s -> %s: %s", msg.Sender, msg.Receiver, msg.Type)

	condensed, err := c.response.Condense(ctx, question, history)
	if err != nil {
		return nil, err
	}

	// Retrieve
	retrieveMsg := domain.AgentMessage{
		Sender:   domain.AgentCoordinator,
		Receiver: domain.AgentRetrieval,
		Type:     domain.MessageRetrievalRequest,
		TraceID:  traceID,
		Payload:  domain.AgentPayload{SessionID: sessionID, Query: condensed},
	}
	logger.Trace(traceID, "%s -> %s: %s", retrieveMsg.Sender, retrieveMsg.Receiver, retrieveMsg.Type)

	query := domain.Query{
		Text:      condensed,
		SessionID: sessionID,
		History:   history,
		AskedAt:   time.Now(),
	}

	var chunks []domain.RetrievedChunk
	result, err := c.retrieval.Retrieve(ctx, query, DefaultTopK)
	switch {
	case errors.Is(err, domain.ErrNoDocuments):
		logger.Info("Session %s has no indexed documents", sessionID)
	case err != nil:
		return nil, err
	default:
		chunks = result.Chunks
		contextMsg := retrieveMsg.Reply(domain.MessageContextResponse, domain.AgentPayload{
			SessionID: sessionID,
			Query:     condensed,
			Context:   chunks,
		})
		logger.Trace(traceID, "%s -> %s: %s (%d chunk(s))",
			contextMsg.Sender, contextMsg.Receiver, contextMsg.Type, len(chunks))
	}

	// Generate
	generateMsg := domain.AgentMessage{
		Sender:   domain.AgentCoordinator,
		Receiver: domain.AgentLLMResponse,
		Type:     domain.MessageGenerateRequest,
		TraceID:  traceID,
		Payload:  domain.AgentPayload{SessionID: sessionID, Query: condensed, Context: chunks},
	}
	logger.Trace(traceID, "%s -> %s: %s", generateMsg.Sender, generateMsg.Receiver, generateMsg.Type)

	answer, err := c.response.Generate(ctx, condensed, chunks)
	if err != nil {
		return nil, err
	}
	answer.SessionID = sessionID
	answer.TraceID = traceID

	finalMsg := generateMsg.Reply(domain.MessageFinalResponse, domain.AgentPayload{
		SessionID: sessionID,
		Answer:    answer.Text,
		Citations: answer.Citations,
	})
	logger.Trace(traceID, "%s -> %s: %s", finalMsg.Sender, finalMsg.Receiver, finalMsg.Type)

	// Record the exchange as the user asked it, not as condensed
	if err := c.sessionStore.AppendTurns(ctx, sessionID,
		domain.ChatTurn{Role: domain.RoleUser, Content: question},
		domain.ChatTurn{Role: domain.RoleAssistant, Content: answer.Text},
	); err != nil {
		logger.Warn("Recording history for session %s failed: %v", sessionID, err)
	}

	return answer, nil
}

// Search retrieves relevant chunks without generating an answer.
func (c *CoordinatorAgent) Search(ctx context.Context, sessionID, query string, topK int) (*domain.RetrievalResult, error) {
	if err := c.ensureSession(ctx, sessionID); err != nil {
		return nil, err
	}

	return c.retrieval.Retrieve(ctx, domain.Query{
		Text:      query,
		SessionID: sessionID,
		AskedAt:   time.Now(),
	}, topK)
}

// ensureSession creates the session on first use.
func (c *CoordinatorAgent) ensureSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: empty session id", domain.ErrInvalidInput)
	}

	_, err := c.sessionStore.GetSession(ctx, sessionID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("get session: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:        sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.sessionStore.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	logger.Debug("Created session %s", sessionID)
	return nil
}
