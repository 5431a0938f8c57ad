// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Extractor turns source text into a StructuralModel.
//
// # Description
//
// Implementations use a full-fidelity parser for their language. Syntax
// errors are reported through the returned model (Valid == false), never as
// a Go error. The only error an Extractor returns is cancellation.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type Extractor interface {
	// Validate reports whether source parses. When it does not, the message
	// has the form "Syntax error at line N: diagnostic".
	Validate(ctx context.Context, source string) (bool, string, error)

	// Parse returns the structural model of source. Calling Parse twice on
	// identical text yields structurally equal models.
	Parse(ctx context.Context, source string) (*StructuralModel, error)

	// Language returns the canonical language name, e.g. "python".
	Language() string

	// Extensions returns handled file extensions including the dot.
	Extensions() []string
}

// ExtractorRegistry maps languages and file extensions to extractors.
//
// # Thread Safety
//
// Safe for concurrent use. Registration normally happens at startup.
type ExtractorRegistry struct {
	mu          sync.RWMutex
	byLanguage  map[string]Extractor
	byExtension map[string]Extractor
}

// NewExtractorRegistry creates an empty registry.
func NewExtractorRegistry() *ExtractorRegistry {
	return &ExtractorRegistry{
		byLanguage:  make(map[string]Extractor),
		byExtension: make(map[string]Extractor),
	}
}

// NewDefaultRegistry returns a registry with the Python and Go extractors.
func NewDefaultRegistry() *ExtractorRegistry {
	r := NewExtractorRegistry()
	r.Register(NewPythonExtractor())
	r.Register(NewGoExtractor())
	return r
}

// Register adds an extractor, replacing any previous one for the same
// language or extension.
func (r *ExtractorRegistry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLanguage[strings.ToLower(e.Language())] = e
	for _, ext := range e.Extensions() {
		r.byExtension[strings.ToLower(ext)] = e
	}
}

// ByLanguage looks up an extractor by language name, case-insensitively.
func (r *ExtractorRegistry) ByLanguage(language string) (Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byLanguage[strings.ToLower(language)]
	if !ok {
		return nil, fmt.Errorf("language %q: %w", language, ErrUnsupportedLanguage)
	}
	return e, nil
}

// ByExtension looks up an extractor by file extension (".py" or "py").
func (r *ExtractorRegistry) ByExtension(ext string) (Extractor, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byExtension[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("extension %q: %w", ext, ErrUnsupportedLanguage)
	}
	return e, nil
}

// Languages returns the registered language names, sorted.
func (r *ExtractorRegistry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
