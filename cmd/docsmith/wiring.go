// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AleutianAI/docsmith/cmd/docsmith/config"
	"github.com/AleutianAI/docsmith/services/docgen"
	"github.com/AleutianAI/docsmith/services/docgen/ast"
	"github.com/AleutianAI/docsmith/services/docgen/format"
	"github.com/AleutianAI/docsmith/services/docgen/synth"
	"github.com/AleutianAI/docsmith/services/llm"
)

// buildService assembles the pipeline from c. The completion backend is
// only constructed when withBackend is set; the API key is read here, once,
// and handed to the backend explicitly.
func buildService(c config.DocsmithConfig, mode synth.Mode, withBackend bool, log *slog.Logger) (*docgen.Service, error) {
	style, err := docgen.ResolveStyle(c.Style)
	if err != nil {
		return nil, err
	}

	opts := []synth.Option{synth.WithLogger(log)}
	if withBackend {
		opts = append(opts, synth.WithCompleter(llm.NewCompleter(llm.Config{
			Backend:           c.Synthesis.Backend,
			APIKey:            c.Synthesis.APIKey(),
			BaseURL:           c.Synthesis.BaseURL,
			RequestsPerSecond: c.Synthesis.RequestsPerSecond,
		}, log)))
	}

	syn := synth.New(synth.Config{
		Mode:        mode,
		Style:       string(style),
		Model:       c.Synthesis.Model,
		Temperature: c.Synthesis.Temperature,
		MaxTokens:   c.Synthesis.MaxTokens,
		Timeout:     c.Synthesis.Timeout,
	}, opts...)

	return docgen.NewService(docgen.ServiceConfig{
		Language:       c.Language,
		Style:          style,
		IncludeMethods: c.IncludeMethods,
		Concurrency:    c.Synthesis.Concurrency,
	}, docgen.WithSynthesizer(syn), docgen.WithLogger(log)), nil
}

// configuredMode returns the synthesis mode named in c, upgraded to
// delegated when the --delegate flag asks for it.
func configuredMode(c config.DocsmithConfig, delegate bool) synth.Mode {
	if delegate {
		return synth.ModeDelegated
	}
	mode, err := docgen.ResolveMode(c.Synthesis.Mode)
	if err != nil || mode == "" {
		return synth.ModeLocal
	}
	return mode
}

var registry = ast.NewDefaultRegistry()

// languageFor picks the language of path from its extension, falling back
// to fallback for unknown extensions.
func languageFor(path, fallback string) string {
	if e, err := registry.ByExtension(filepath.Ext(path)); err == nil {
		return e.Language()
	}
	return fallback
}

// readFile reads path as source text. An empty path yields "".
func readFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// outputName maps a source path to its documentation file name.
func outputName(path, suffix string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))] + suffix
}

// styleOrDefault resolves a --style flag, keeping the configured style
// when the flag is empty.
func styleOrDefault(flag string, c config.DocsmithConfig) (format.Style, error) {
	if flag == "" {
		flag = c.Style
	}
	return docgen.ResolveStyle(flag)
}
