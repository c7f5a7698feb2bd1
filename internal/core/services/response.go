package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
	"github.com/parchment-labs/docuchat/internal/logger"
)

// NoContextAnswer is returned when retrieval produced nothing useful.
const NoContextAnswer = "I could not find relevant information in the uploaded documents to answer your question."

// historyWindow caps how many past turns are included when condensing a
// follow-up question.
const historyWindow = 10

const condensePrompt = `Given the following conversation and a follow up question, rephrase the follow up question to be a standalone question that captures all relevant context from the conversation. If the question is already standalone, return it unchanged.

Chat history:
%s

Follow up question: %s

Standalone question:`

const answerSystemPrompt = `You are a helpful assistant that answers questions based on the provided document excerpts. Use only the information in the excerpts to answer. If the excerpts do not contain the answer, say so clearly. Be concise and factual.`

const answerUserPrompt = `Document excerpts:
%s

Question: %s`

// LLMResponseAgent turns retrieved context into a grounded answer with
// citations.
type LLMResponseAgent struct {
	llmService driven.LLMService
}

// NewLLMResponseAgent creates a new response agent.
func NewLLMResponseAgent(llmService driven.LLMService) *LLMResponseAgent {
	return &LLMResponseAgent{llmService: llmService}
}

// Condense rewrites a follow-up question into a standalone question using
// the conversation history. Questions asked with no history, or when the
// LLM is unavailable, pass through unchanged.
func (a *LLMResponseAgent) Condense(ctx context.Context, question string, history []domain.ChatTurn) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if len(history) == 0 || a.llmService == nil {
		return question, nil
	}

	logger.Debug("Condensing question against %d history turn(s)", len(history))

	prompt := fmt.Sprintf(condensePrompt, formatHistory(history), question)
	condensed, err := a.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   256,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Condensing failed, using question as asked: %v", err)
		return question, nil
	}

	condensed = strings.TrimSpace(condensed)
	if condensed == "" {
		return question, nil
	}
	logger.Debug("Condensed question: %q", condensed)
	return condensed, nil
}

// Generate produces an answer grounded in the retrieved chunks. An empty
// context yields the canned no-context answer without calling the LLM.
func (a *LLMResponseAgent) Generate(ctx context.Context, question string, chunks []domain.RetrievedChunk) (*domain.Answer, error) {
	logger.Section("Answer Generation")

	if len(chunks) == 0 {
		logger.Info("No context available, returning canned answer")
		return &domain.Answer{Text: NoContextAnswer}, nil
	}
	if a.llmService == nil {
		return nil, domain.ErrLLMUnavailable
	}

	text, err := a.llmService.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: answerSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(answerUserPrompt, formatContext(chunks), question)},
	}, driven.ChatOptions{
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	answer := &domain.Answer{
		Text:      strings.TrimSpace(text),
		Citations: buildCitations(chunks),
	}
	logger.Info("Generated answer with %d citation(s)", len(answer.Citations))
	return answer, nil
}

// formatHistory renders the most recent turns as "role: content" lines.
func formatHistory(history []domain.ChatTurn) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	var sb strings.Builder
	for _, turn := range history {
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatContext renders retrieved chunks as numbered excerpts with their
// source file names.
func formatContext(chunks []domain.RetrievedChunk) string {
	var sb strings.Builder
	for i, chunk := range chunks {
		fmt.Fprintf(&sb, "[%d] (from %s)\n%s\n\n", i+1, chunk.Document.Filename, chunk.Chunk.Content)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// buildCitations creates one citation per context chunk, deduplicated by
// chunk ID.
func buildCitations(chunks []domain.RetrievedChunk) []domain.Citation {
	seen := make(map[string]bool)
	citations := make([]domain.Citation, 0, len(chunks))
	for _, chunk := range chunks {
		if seen[chunk.Chunk.ID] {
			continue
		}
		seen[chunk.Chunk.ID] = true
		citations = append(citations, domain.NewCitation(chunk))
	}
	return citations
}
