package llm

import (
	"log/slog"
	"strings"
)

// Backend names accepted by NewCompleter.
const (
	BackendNone   = "none"
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
)

// Config selects and configures a completion backend.
type Config struct {
	Backend           string
	APIKey            string
	BaseURL           string
	RequestsPerSecond float64
}

// NewCompleter builds the configured completer. A missing or misconfigured
// backend yields an AbsentCompleter rather than an error so that synthesis
// can always fall back to local mode.
func NewCompleter(cfg Config, logger *slog.Logger) Completer {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		c   Completer
		err error
	)
	switch strings.ToLower(cfg.Backend) {
	case BackendOpenAI:
		var opts []OpenAIOption
		if cfg.BaseURL != "" {
			opts = append(opts, WithOpenAIBaseURL(cfg.BaseURL))
		}
		c, err = NewOpenAICompleter(cfg.APIKey, logger, opts...)
	case BackendOllama:
		c, err = NewOllamaCompleter(cfg.BaseURL, logger)
	case "", BackendNone:
		return NewAbsentCompleter("no completion backend configured")
	default:
		logger.Warn("unknown completion backend", "backend", cfg.Backend)
		return NewAbsentCompleter("unknown backend " + cfg.Backend)
	}
	if err != nil {
		logger.Warn("completion backend unavailable", "backend", cfg.Backend, "error", err)
		return NewAbsentCompleter(err.Error())
	}
	return NewRateLimitedCompleter(c, cfg.RequestsPerSecond, 1)
}
