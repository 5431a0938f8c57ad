// Package llm provides the text-completion collaborators used by delegated
// documentation synthesis.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrCompleterUnavailable is returned by a completer that is absent or
	// misconfigured (for example, no API key).
	ErrCompleterUnavailable = errors.New("completer unavailable")

	// ErrEmptyResponse is returned when a backend answers with no content.
	ErrEmptyResponse = errors.New("empty completion response")

	// ErrRateLimited is returned when the local rate limiter cannot admit a
	// request before the context expires.
	ErrRateLimited = errors.New("completion rate limited")
)

// DefaultSystemPrompt frames documentation requests.
const DefaultSystemPrompt = "You are a technical documentation expert."

// CompletionParams carries the per-request model settings.
type CompletionParams struct {
	Model        string  `json:"model"`
	Temperature  float32 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
}

// Completer is the text-completion capability. Implementations return the
// raw response text and make no promise about its structure.
type Completer interface {
	Complete(ctx context.Context, prompt string, params CompletionParams) (string, error)

	// Name identifies the backend in logs and metrics.
	Name() string
}

func systemPrompt(params CompletionParams) string {
	if params.SystemPrompt != "" {
		return params.SystemPrompt
	}
	return DefaultSystemPrompt
}
