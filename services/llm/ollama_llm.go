package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("docsmith.llm")

// OllamaCompleter calls a local Ollama server's /api/generate endpoint.
type OllamaCompleter struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewOllamaCompleter creates a completer for the server at baseURL.
func NewOllamaCompleter(baseURL string, logger *slog.Logger) (*OllamaCompleter, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: Ollama base URL not set", ErrCompleterUnavailable)
	}
	if logger == nil {
		logger = slog.Default()
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	logger.Info("Initializing Ollama completer", "base_url", baseURL)
	return &OllamaCompleter{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    baseURL,
		logger:     logger,
	}, nil
}

// Complete implements Completer.
func (o *OllamaCompleter) Complete(ctx context.Context, prompt string, params CompletionParams) (string, error) {
	ctx, span := tracer.Start(ctx, "OllamaCompleter.Complete")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", params.Model))

	options := map[string]any{"temperature": params.Temperature}
	if params.MaxTokens > 0 {
		options["num_predict"] = params.MaxTokens
	}
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:   params.Model,
		Prompt:  prompt,
		System:  systemPrompt(params),
		Stream:  false,
		Options: options,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to marshal request to Ollama: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to create request to Ollama: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("Ollama API call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to read response body from Ollama: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
		return "", fmt.Errorf("Ollama failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var out ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to parse Ollama response: %w", err)
	}
	if out.Response == "" {
		return "", fmt.Errorf("Ollama: %w", ErrEmptyResponse)
	}
	o.logger.Debug("Received response from Ollama", "model", out.Model)
	return out.Response, nil
}

// Name returns "ollama".
func (o *OllamaCompleter) Name() string { return "ollama" }

var _ Completer = (*OllamaCompleter)(nil)
