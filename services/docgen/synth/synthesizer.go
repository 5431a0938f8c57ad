// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package synth produces documentation payloads for extracted functions,
// either from local name/parameter heuristics or by delegating to a
// text-completion backend with a local fallback.
package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AleutianAI/docsmith/services/docgen/ast"
	"github.com/AleutianAI/docsmith/services/llm"
)

// Mode selects how payloads are produced.
type Mode string

const (
	// ModeLocal uses only the heuristic tables.
	ModeLocal Mode = "local"

	// ModeDelegated asks a Completer first and falls back to ModeLocal on
	// any failure.
	ModeDelegated Mode = "delegated"
)

// DescriptionPrefixLimit bounds the description taken from a delegated
// response, in characters.
const DescriptionPrefixLimit = 200

// DocumentationPayload is the synthesized documentation for one function.
type DocumentationPayload struct {
	FunctionName string `json:"function_name"`

	// Description holds a brief line, optionally followed by a blank line
	// and an elaboration paragraph.
	Description string `json:"description"`

	// ParameterDescriptions is keyed by parameter name. Receivers are never
	// present.
	ParameterDescriptions map[string]string `json:"parameter_descriptions"`

	ReturnDescription  string   `json:"return_description"`
	Examples           []string `json:"examples"`
	CommentSuggestions []string `json:"comment_suggestions"`

	// Mode records which path produced the payload.
	Mode Mode `json:"mode"`
}

// Config holds synthesis settings. It is passed in at construction; the
// synthesizer reads no ambient state.
type Config struct {
	Mode        Mode
	Style       string
	Model       string
	Temperature float32
	MaxTokens   int

	// Timeout bounds one delegated attempt.
	Timeout time.Duration
}

// DefaultConfig returns local mode with the delegated defaults filled in.
func DefaultConfig() Config {
	return Config{
		Mode:        ModeLocal,
		Style:       "google",
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		MaxTokens:   500,
		Timeout:     30 * time.Second,
	}
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithCompleter sets the backend used in delegated mode.
func WithCompleter(c llm.Completer) Option {
	return func(s *Synthesizer) {
		if c != nil {
			s.completer = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPromptBuilder replaces the default prompt builder.
func WithPromptBuilder(b *PromptBuilder) Option {
	return func(s *Synthesizer) {
		if b != nil {
			s.prompts = b
		}
	}
}

// Synthesizer builds DocumentationPayloads.
//
// # Thread Safety
//
// Safe for concurrent use; it holds no mutable state.
type Synthesizer struct {
	config    Config
	completer llm.Completer
	prompts   *PromptBuilder
	logger    *slog.Logger
}

// New creates a Synthesizer. Without WithCompleter, delegated mode always
// falls back to local synthesis.
func New(cfg Config, opts ...Option) *Synthesizer {
	defaults := DefaultConfig()
	if cfg.Mode == "" {
		cfg.Mode = defaults.Mode
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	if cfg.Style == "" {
		cfg.Style = defaults.Style
	}

	s := &Synthesizer{
		config:    cfg,
		completer: llm.NewAbsentCompleter("no completer configured"),
		prompts:   NewPromptBuilder(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the synthesizer's configuration.
func (s *Synthesizer) Config() Config {
	return s.config
}

// Backend names the completer used in delegated mode.
func (s *Synthesizer) Backend() string {
	return s.completer.Name()
}

// Synthesize produces the payload for fn in the configured mode. It never
// fails: delegated errors and timeouts degrade to local synthesis.
func (s *Synthesizer) Synthesize(ctx context.Context, fn ast.FunctionRecord) DocumentationPayload {
	return s.SynthesizeWithMode(ctx, fn, s.config.Mode)
}

// SynthesizeWithMode is Synthesize with a per-call mode override.
func (s *Synthesizer) SynthesizeWithMode(ctx context.Context, fn ast.FunctionRecord, mode Mode) DocumentationPayload {
	ctx, span := startSynthesisSpan(ctx, fn.Name, mode)
	defer span.End()

	if mode == ModeDelegated {
		payload, err := s.delegated(ctx, fn)
		if err == nil {
			recordSynthesis(ctx, ModeDelegated)
			return payload
		}
		reason := fallbackReason(err)
		s.logger.Warn("delegated synthesis failed, using local heuristics",
			slog.String("function", fn.Name),
			slog.String("backend", s.completer.Name()),
			slog.String("reason", reason),
			slog.String("error", err.Error()))
		recordFallback(ctx, reason)
		span.AddEvent("fallback_to_local")
	}

	recordSynthesis(ctx, ModeLocal)
	return Local(fn)
}

// SynthesizeAll synthesizes every function, preserving order.
func (s *Synthesizer) SynthesizeAll(ctx context.Context, fns []ast.FunctionRecord) []DocumentationPayload {
	out := make([]DocumentationPayload, 0, len(fns))
	for _, fn := range fns {
		out = append(out, s.Synthesize(ctx, fn))
	}
	return out
}

// Local runs the heuristic synthesis. It is a pure function of fn.
func Local(fn ast.FunctionRecord) DocumentationPayload {
	params := fn.ExplicitParameters()
	return DocumentationPayload{
		FunctionName:          fn.Name,
		Description:           describeFunction(fn.Name, len(params)),
		ParameterDescriptions: describeParameters(params),
		ReturnDescription:     DescribeReturn(fn.Name, fn.ReturnAnnotation),
		Examples:              buildExamples(fn.Name, params),
		CommentSuggestions:    suggestComments(fn),
		Mode:                  ModeLocal,
	}
}

func describeFunction(name string, paramCount int) string {
	tokens := SplitName(name)

	action := "process"
	if len(tokens) > 0 {
		action = tokens[0]
	}
	object := "the input data"
	if len(tokens) > 1 {
		object = strings.Join(tokens[1:], " ")
	}

	var b strings.Builder
	b.WriteString(actionPhrase(action))
	b.WriteString(" ")
	b.WriteString(object)
	if paramCount > 2 {
		b.WriteString(" with multiple parameters")
	}
	b.WriteString(".")

	b.WriteString("\n\nThis function performs ")
	b.WriteString(action)
	b.WriteString(" operations")
	if len(tokens) > 1 {
		b.WriteString(" on ")
		b.WriteString(object)
	}
	b.WriteString(". It is designed to handle various input scenarios and provide reliable results.")
	return b.String()
}

func describeParameters(params []string) map[string]string {
	out := make(map[string]string, len(params))
	for _, p := range params {
		out[p] = DescribeParameter(p)
	}
	return out
}

func buildExamples(name string, params []string) []string {
	if len(params) == 0 {
		return []string{fmt.Sprintf(">>> %s()", name), "result"}
	}
	args := make([]string, 0, len(params))
	for _, p := range params {
		args = append(args, exampleLiteral(p))
	}
	return []string{
		fmt.Sprintf(">>> %s(%s)", name, strings.Join(args, ", ")),
		"expected_result",
	}
}

// Comment suggestion texts.
const (
	CommentValidateInput = "Validate input parameters"
	CommentMainOperation = "Perform main operation"
	CommentReturnResult  = "Return processed result"
	commentDelegatedMain = "Main operation"
)

func suggestComments(fn ast.FunctionRecord) []string {
	var out []string
	if len(fn.Parameters) > 1 {
		out = append(out, CommentValidateInput)
	}
	out = append(out, CommentMainOperation)
	if strings.Contains(strings.ToLower(fn.BodyText), "return") || fn.ReturnAnnotation != "" {
		out = append(out, CommentReturnResult)
	}
	return out
}

// delegated makes one bounded attempt against the completer.
func (s *Synthesizer) delegated(ctx context.Context, fn ast.FunctionRecord) (DocumentationPayload, error) {
	prompt := s.prompts.Build(fn, s.config.Style)

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	resp, err := s.completer.Complete(ctx, prompt, llm.CompletionParams{
		Model:       s.config.Model,
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		return DocumentationPayload{}, err
	}
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return DocumentationPayload{}, llm.ErrEmptyResponse
	}

	params := fn.ExplicitParameters()
	descs := make(map[string]string, len(params))
	for _, p := range params {
		descs[p] = "Description of " + p
	}
	return DocumentationPayload{
		FunctionName:          fn.Name,
		Description:           truncateRunes(resp, DescriptionPrefixLimit),
		ParameterDescriptions: descs,
		ReturnDescription:     "Return value description",
		Examples:              []string{">>> example()", "result"},
		CommentSuggestions:    []string{commentDelegatedMain},
		Mode:                  ModeDelegated,
	}, nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, llm.ErrCompleterUnavailable):
		return "unavailable"
	case errors.Is(err, llm.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, llm.ErrEmptyResponse):
		return "empty_response"
	default:
		return "error"
	}
}
