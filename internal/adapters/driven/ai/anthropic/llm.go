// Package anthropic provides an LLM service backed by the Anthropic API.
// Anthropic has no embedding endpoint, so embeddings come from another
// provider when this one is selected for generation.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/parchment-labs/docuchat/internal/core/ports/driven"
)

// Ensure LLM implements the interface.
var _ driven.LLMService = (*LLM)(nil)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-sonnet-4-5"

	// defaultMaxTokens applies when the caller does not set a limit; the
	// Anthropic API requires max_tokens on every request.
	defaultMaxTokens = 1024
)

// LLM is an Anthropic-backed language model service.
type LLM struct {
	client anthropic.Client
	model  string
}

// NewLLM creates an Anthropic LLM client. If model is empty, DefaultModel is used.
func NewLLM(apiKey, model string) (*LLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	return &LLM{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// Generate produces text completion from a prompt.
func (l *LLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(l.model),
		MaxTokens: maxTokens(opts.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(opts.Temperature),
	}
	if len(opts.StopWords) > 0 {
		params.StopSequences = opts.StopWords
	}

	msg, err := l.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic generate: %w", err)
	}
	return messageText(msg), nil
}

// Chat conducts a multi-turn conversation. Leading "system" messages become
// the system prompt.
func (l *LLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(l.model),
		MaxTokens:   maxTokens(opts.MaxTokens),
		Temperature: anthropic.Float(opts.Temperature),
	}

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			params.System = append(params.System, anthropic.TextBlockParam{Text: msg.Content})
		case "assistant":
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	msg, err := l.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic chat: %w", err)
	}
	return messageText(msg), nil
}

func maxTokens(n int) int64 {
	if n <= 0 {
		return defaultMaxTokens
	}
	return int64(n)
}

func messageText(msg *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}

// ModelName returns the configured model name.
func (l *LLM) ModelName() string {
	return l.model
}

// Close releases resources.
func (l *LLM) Close() error {
	return nil
}
