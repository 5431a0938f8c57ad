package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

// OpenAIOption configures an OpenAICompleter.
type OpenAIOption func(*openai.ClientConfig)

// WithOpenAIBaseURL points the client at a compatible endpoint.
func WithOpenAIBaseURL(baseURL string) OpenAIOption {
	return func(cfg *openai.ClientConfig) {
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
	}
}

// OpenAICompleter calls the chat completions API.
type OpenAICompleter struct {
	client *openai.Client
	logger *slog.Logger
}

// NewOpenAICompleter creates a completer for apiKey. The key is passed in
// explicitly; this package never reads the environment.
func NewOpenAICompleter(apiKey string, logger *slog.Logger, opts ...OpenAIOption) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key not set", ErrCompleterUnavailable)
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg := openai.DefaultConfig(apiKey)
	for _, opt := range opts {
		opt(&cfg)
	}
	logger.Info("Initializing OpenAI completer", "base_url", cfg.BaseURL)
	return &OpenAICompleter{
		client: openai.NewClientWithConfig(cfg),
		logger: logger,
	}, nil
}

// Complete implements Completer.
func (o *OpenAICompleter) Complete(ctx context.Context, prompt string, params CompletionParams) (string, error) {
	o.logger.Debug("Completing via OpenAI", "model", params.Model)
	req := openai.ChatCompletionRequest{
		Model: params.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(params)},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: params.Temperature,
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = params.MaxTokens
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("OpenAI: %w", ErrEmptyResponse)
	}
	o.logger.Debug("Received response from OpenAI", "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}

// Name returns "openai".
func (o *OpenAICompleter) Name() string { return "openai" }

var _ Completer = (*OpenAICompleter)(nil)
