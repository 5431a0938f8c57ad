package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompleter_Complete(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Computes things."},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	c, err := NewOpenAICompleter("test-key", nil, WithOpenAIBaseURL(server.URL+"/v1"))
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "document f", CompletionParams{
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		MaxTokens:   500,
	})
	require.NoError(t, err)
	assert.Equal(t, "Computes things.", out)

	assert.Equal(t, "gpt-3.5-turbo", gotBody["model"])
	assert.EqualValues(t, 500, gotBody["max_tokens"])
	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]any)
	assert.Equal(t, DefaultSystemPrompt, system["content"])
}

func TestOpenAICompleter_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	c, err := NewOpenAICompleter("k", nil, WithOpenAIBaseURL(server.URL+"/v1"))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "p", CompletionParams{Model: "m"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAICompleter_MissingKey(t *testing.T) {
	_, err := NewOpenAICompleter("", nil)
	assert.ErrorIs(t, err, ErrCompleterUnavailable)
}

func TestOllamaCompleter_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var req ollamaGenerateRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "llama3", req.Model)
		assert.False(t, req.Stream)
		assert.EqualValues(t, 200, req.Options["num_predict"])

		_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{Model: req.Model, Response: "ok", Done: true})
	}))
	defer server.Close()

	c, err := NewOllamaCompleter(server.URL+"/", nil)
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "p", CompletionParams{Model: "llama3", MaxTokens: 200})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestOllamaCompleter_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	c, err := NewOllamaCompleter(server.URL, nil)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "p", CompletionParams{Model: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestAbsentCompleter(t *testing.T) {
	_, err := NewAbsentCompleter("no key").Complete(context.Background(), "p", CompletionParams{})
	assert.ErrorIs(t, err, ErrCompleterUnavailable)
	assert.Contains(t, err.Error(), "no key")
}

func TestMockCompleter(t *testing.T) {
	m := &MockCompleter{Response: "text"}
	out, err := m.Complete(context.Background(), "prompt", CompletionParams{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "text", out)
	assert.Equal(t, int64(1), m.Calls())
	assert.Equal(t, "prompt", m.LastPrompt())
	assert.Equal(t, "m", m.LastParams().Model)

	slow := &MockCompleter{Response: "late", Delay: time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = slow.Complete(ctx, "p", CompletionParams{})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRateLimitedCompleter(t *testing.T) {
	inner := &MockCompleter{Response: "ok"}

	assert.Same(t, Completer(inner), NewRateLimitedCompleter(inner, 0, 1))

	limited := NewRateLimitedCompleter(inner, 0.001, 1)
	_, err := limited.Complete(context.Background(), "p", CompletionParams{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.Complete(ctx, "p", CompletionParams{})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int64(1), inner.Calls())
	assert.Equal(t, "mock", limited.Name())
}

func TestNewCompleter(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
	}{
		{"none", Config{Backend: BackendNone}, "absent"},
		{"empty", Config{}, "absent"},
		{"openai without key", Config{Backend: BackendOpenAI}, "absent"},
		{"openai", Config{Backend: BackendOpenAI, APIKey: "k"}, "openai"},
		{"ollama without url", Config{Backend: BackendOllama}, "absent"},
		{"ollama", Config{Backend: BackendOllama, BaseURL: "http://localhost:11434"}, "ollama"},
		{"unknown", Config{Backend: "bard"}, "absent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, NewCompleter(tt.cfg, nil).Name())
		})
	}
}
