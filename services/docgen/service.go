// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package docgen wires extraction, synthesis, formatting and evaluation
// into one pipeline and serves it over HTTP.
package docgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/AleutianAI/docsmith/services/docgen/ast"
	"github.com/AleutianAI/docsmith/services/docgen/eval"
	"github.com/AleutianAI/docsmith/services/docgen/format"
	"github.com/AleutianAI/docsmith/services/docgen/report"
	"github.com/AleutianAI/docsmith/services/docgen/synth"
)

// ServiceVersion is reported by the health endpoint.
const ServiceVersion = "0.1.0"

// DefaultModuleName titles module docs when no name is given.
const DefaultModuleName = "module"

// ServiceConfig holds pipeline defaults. Per-call options override them.
type ServiceConfig struct {
	// Language is used when a request names none.
	Language string

	// Style is the default docstring layout.
	Style format.Style

	// IncludeMethods documents class methods alongside module functions.
	IncludeMethods bool

	// Concurrency bounds parallel synthesis within one Generate call.
	Concurrency int
}

// DefaultServiceConfig returns Python, Google style, module functions only.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Language:    ast.LanguagePython,
		Style:       format.StyleGoogle,
		Concurrency: 4,
	}
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRegistry replaces the default extractor registry.
func WithRegistry(r *ast.ExtractorRegistry) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithSynthesizer replaces the default local-mode synthesizer.
func WithSynthesizer(syn *synth.Synthesizer) ServiceOption {
	return func(s *Service) {
		if syn != nil {
			s.synth = syn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service runs the documentation pipeline.
//
// # Thread Safety
//
// Safe for concurrent use. Concurrent Analyze calls for identical source
// share one parse; the returned model must be treated as read-only.
type Service struct {
	config    ServiceConfig
	registry  *ast.ExtractorRegistry
	synth     *synth.Synthesizer
	evaluator *eval.Evaluator
	logger    *slog.Logger
	analyses  singleflight.Group
}

// NewService creates a Service.
func NewService(cfg ServiceConfig, opts ...ServiceOption) *Service {
	defaults := DefaultServiceConfig()
	if cfg.Language == "" {
		cfg.Language = defaults.Language
	}
	if cfg.Style == "" {
		cfg.Style = defaults.Style
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaults.Concurrency
	}

	s := &Service{
		config:    cfg,
		registry:  ast.NewDefaultRegistry(),
		synth:     synth.New(synth.DefaultConfig()),
		evaluator: eval.NewEvaluator(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the service configuration.
func (s *Service) Config() ServiceConfig {
	return s.config
}

// Languages lists the languages the service can parse.
func (s *Service) Languages() []string {
	return s.registry.Languages()
}

// Backend names the delegated completer.
func (s *Service) Backend() string {
	return s.synth.Backend()
}

func (s *Service) extractor(language string) (ast.Extractor, error) {
	if language == "" {
		language = s.config.Language
	}
	e, err := s.registry.ByLanguage(language)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}
	return e, nil
}

// Analyze parses source. Syntax errors are reported in the model, not as
// an error; errors are returned only for an unknown language or a canceled
// context.
//
// Concurrent calls for the same text share one parse. The shared parse is
// detached from any single caller's cancellation, each caller waits on its
// own context, and each caller receives its own copy of the model.
func (s *Service) Analyze(ctx context.Context, source, language string) (*ast.StructuralModel, error) {
	e, err := s.extractor(language)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(source))
	key := e.Language() + ":" + hex.EncodeToString(sum[:])

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ast.ErrParseCanceled, err)
	}
	parseCtx := context.WithoutCancel(ctx)
	ch := s.analyses.DoChan(key, func() (any, error) {
		return e.Parse(parseCtx, source)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ast.ErrParseCanceled, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("analysis shared with concurrent caller", slog.String("language", e.Language()))
		}
		return res.Val.(*ast.StructuralModel).Clone(), nil
	}
}

// GenerateOptions selects how one Generate call documents the source.
type GenerateOptions struct {
	Style          format.Style
	Mode           synth.Mode
	IncludeMethods bool
	ModuleName     string
}

// DefaultGenerateOptions returns options built from the service config and
// the synthesizer's mode.
func (s *Service) DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Style:          s.config.Style,
		Mode:           s.synth.Config().Mode,
		IncludeMethods: s.config.IncludeMethods,
		ModuleName:     DefaultModuleName,
	}
}

// Generation is the output of one Generate call.
type Generation struct {
	Model      *ast.StructuralModel         `json:"structure"`
	Functions  []ast.FunctionRecord         `json:"-"`
	Payloads   []synth.DocumentationPayload `json:"payloads"`
	Rendered   []format.RenderedFunction    `json:"-"`
	Document   string                       `json:"documentation"`
	ModuleDocs string                       `json:"module_docs"`
}

// ResolveStyle parses a style name, mapping failures to ErrInvalidStyle.
func ResolveStyle(name string) (format.Style, error) {
	style, err := format.ParseStyle(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidStyle, name)
	}
	return style, nil
}

// ResolveMode parses a synthesis mode name. An empty name returns "" so
// the caller keeps its default.
func ResolveMode(name string) (synth.Mode, error) {
	switch synth.Mode(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return "", nil
	case synth.ModeLocal:
		return synth.ModeLocal, nil
	case synth.ModeDelegated:
		return synth.ModeDelegated, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, name)
	}
}

// Generate documents every module function of source (and class methods
// when opts.IncludeMethods), in source order. A source with syntax errors
// returns the invalid model together with an error wrapping ErrSyntax.
func (s *Service) Generate(ctx context.Context, source, language string, opts GenerateOptions) (*Generation, error) {
	model, err := s.Analyze(ctx, source, language)
	if err != nil {
		return nil, err
	}
	if !model.Valid {
		return &Generation{Model: model}, fmt.Errorf("%w: %s", ErrSyntax, model.ErrorMessage)
	}

	if opts.Style == "" {
		opts.Style = s.config.Style
	}
	if opts.Mode == "" {
		opts.Mode = s.synth.Config().Mode
	}
	if opts.ModuleName == "" {
		opts.ModuleName = DefaultModuleName
	}

	fns, names := documentedFunctions(model, opts.IncludeMethods)

	payloads := make([]synth.DocumentationPayload, len(fns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for i := range fns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			payloads[i] = s.synth.SynthesizeWithMode(gctx, fns[i], opts.Mode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	rendered := make([]format.RenderedFunction, len(fns))
	for i, fn := range fns {
		rendered[i] = format.RenderedFunction{
			Name: names[i],
			Text: format.Render(fn, payloads[i], opts.Style),
		}
	}

	s.logger.Info("documentation generated",
		slog.String("language", model.Language),
		slog.Int("functions", len(fns)),
		slog.String("style", string(opts.Style)),
		slog.String("mode", string(opts.Mode)))

	return &Generation{
		Model:      model,
		Functions:  fns,
		Payloads:   payloads,
		Rendered:   rendered,
		Document:   format.Combine(rendered),
		ModuleDocs: format.ModuleDocs(model, opts.ModuleName),
	}, nil
}

// documentedFunctions returns the records to document and their display
// names. Methods are qualified with their class name.
func documentedFunctions(model *ast.StructuralModel, includeMethods bool) ([]ast.FunctionRecord, []string) {
	fns := append([]ast.FunctionRecord(nil), model.Functions...)
	names := make([]string, 0, len(fns))
	for _, fn := range fns {
		names = append(names, fn.Name)
	}
	if !includeMethods {
		return fns, names
	}
	for _, cls := range model.Classes {
		for _, m := range cls.Methods {
			fns = append(fns, m)
			names = append(names, cls.Name+"."+m.Name)
		}
	}
	return fns, names
}

// Evaluation bundles an evaluation with the comparison table.
type Evaluation struct {
	Model      *ast.StructuralModel  `json:"structure,omitempty"`
	Result     eval.EvaluationResult `json:"evaluation"`
	Comparison *report.Comparison    `json:"comparison"`
}

// Evaluate scores generated against reference. When source is non-empty
// it is analyzed for coverage; a source that does not parse counts as
// having no elements.
func (s *Service) Evaluate(ctx context.Context, generated, reference, source, language string) (*Evaluation, error) {
	var model *ast.StructuralModel
	if strings.TrimSpace(source) != "" {
		m, err := s.Analyze(ctx, source, language)
		if err != nil {
			return nil, err
		}
		model = m
		if !m.Valid {
			s.logger.Warn("evaluating against source with syntax errors",
				slog.String("error", m.ErrorMessage))
		}
	}

	return &Evaluation{
		Model:      model,
		Result:     s.evaluator.Evaluate(ctx, generated, reference, model),
		Comparison: report.Compare(generated, reference),
	}, nil
}

// Report evaluates and renders the Markdown report.
func (s *Service) Report(ctx context.Context, generated, reference, source, language string) (string, *Evaluation, error) {
	ev, err := s.Evaluate(ctx, generated, reference, source, language)
	if err != nil {
		return "", nil, err
	}
	return report.Markdown(ev.Result, ev.Model), ev, nil
}

// IsClientError reports whether err stems from bad input rather than a
// failure of the service.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidStyle) ||
		errors.Is(err, ErrInvalidLanguage) ||
		errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrSyntax)
}
