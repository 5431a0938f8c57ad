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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/docsmith/pkg/ux"
	"github.com/AleutianAI/docsmith/pkg/validation"
	"github.com/AleutianAI/docsmith/services/docgen"
	"github.com/AleutianAI/docsmith/services/docgen/format"
	"github.com/AleutianAI/docsmith/services/docgen/synth"
)

// watchDebounce is the quiet period after the last write before a watched
// file is regenerated.
const watchDebounce = 300 * time.Millisecond

var generateFlags struct {
	style          string
	language       string
	outDir         string
	delegate       bool
	includeMethods bool
	inline         bool
	watch          bool
}

func runGenerate(cmd *cobra.Command, args []string) error {
	style, err := styleOrDefault(generateFlags.style, cfg)
	if err != nil {
		return err
	}
	mode := configuredMode(cfg, generateFlags.delegate)
	svc, err := buildService(cfg, mode, mode == synth.ModeDelegated, logger.Slog())
	if err != nil {
		return err
	}

	fallback := generateFlags.language
	if fallback == "" {
		fallback = cfg.Language
	}

	g := &generator{
		svc:            svc,
		out:            cmd.OutOrStdout(),
		style:          style,
		includeMethods: generateFlags.includeMethods || cfg.IncludeMethods,
		outDir:         generateFlags.outDir,
		inline:         generateFlags.inline,
		fallback:       fallback,
		concurrency:    cfg.Synthesis.Concurrency,
	}

	ctx := cmd.Context()
	if ux.IsTerminal(os.Stderr) && ux.GetPersonalityLevel() != ux.PersonalityMachine {
		g.progress = ux.NewProgressSpinner(cmd.ErrOrStderr(), "Generating documentation", len(args))
		g.progress.Start()
	}
	err = g.run(ctx, args)
	g.progress = nil
	if !generateFlags.watch {
		return err
	}

	p := ux.NewPrinter(cmd.ErrOrStderr())
	p.Info(fmt.Sprintf("Watching %d file(s) for changes, press Ctrl+C to stop", len(args)))
	return watchFiles(ctx, args, watchDebounce, func(path string) {
		if err := g.run(ctx, []string{path}); err != nil {
			logger.Warn("regeneration failed", "path", path, "error", err)
		}
	}, logger.Slog())
}

// generator documents files and emits the results in argument order.
type generator struct {
	svc            *docgen.Service
	out            io.Writer
	style          format.Style
	includeMethods bool
	outDir         string
	inline         bool
	fallback       string
	concurrency    int

	// progress, when set, counts finished files and is stopped before
	// any output is written.
	progress *ux.ProgressSpinner

	// mu serializes output between watch-triggered runs.
	mu sync.Mutex
}

type fileResult struct {
	path   string
	source string
	gen    *docgen.Generation
	err    error
}

// run generates documentation for paths concurrently. A failing file does
// not stop the others; the returned error counts the failures.
func (g *generator) run(ctx context.Context, paths []string) error {
	results := make([]fileResult, len(paths))

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.concurrency, 1))
	for i, path := range paths {
		eg.Go(func() error {
			results[i] = g.generateFile(ectx, path)
			if g.progress != nil {
				g.progress.Increment()
			}
			// Only cancellation aborts the batch.
			return ctx.Err()
		})
	}
	err := eg.Wait()
	if g.progress != nil {
		g.progress.Stop()
	}
	if err != nil {
		return err
	}

	return g.emit(results)
}

func (g *generator) generateFile(ctx context.Context, path string) fileResult {
	source, err := readFile(path)
	if err != nil {
		return fileResult{path: path, err: err}
	}
	gen, err := g.svc.Generate(ctx, source, languageFor(path, g.fallback), docgen.GenerateOptions{
		Style:          g.style,
		IncludeMethods: g.includeMethods,
		ModuleName:     validation.SanitizeModuleName(outputName(path, "")),
	})
	return fileResult{path: path, source: source, gen: gen, err: err}
}

func (g *generator) emit(results []fileResult) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := ux.NewPrinter(g.out)
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			p.FileStatus(r.path, ux.IconError, r.err.Error())
			continue
		}

		if g.outDir == "" {
			if len(results) > 1 {
				p.Title(r.path)
			}
			fmt.Fprintln(g.out, documentText(r.gen))
			continue
		}

		written, err := g.writeOutputs(r)
		if err != nil {
			failed++
			p.FileStatus(r.path, ux.IconError, err.Error())
			continue
		}
		p.FileStatus(r.path, ux.IconSuccess, strings.Join(written, ", "))
	}

	if g.outDir != "" || len(results) > 1 {
		p.Summary(len(results)-failed, failed, len(results))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// writeOutputs writes <name>.md and, with inline set, the annotated source
// next to it. It returns the written paths.
func (g *generator) writeOutputs(r fileResult) ([]string, error) {
	if err := os.MkdirAll(g.outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	docPath := filepath.Join(g.outDir, outputName(r.path, ".md"))
	if err := os.WriteFile(docPath, []byte(documentText(r.gen)+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", docPath, err)
	}
	written := []string{docPath}

	if g.inline {
		ext := filepath.Ext(r.path)
		annotatedPath := filepath.Join(g.outDir, outputName(r.path, ".annotated"+ext))
		annotated := format.InlineComments(r.source, r.gen.Model.Language, r.gen.Functions, r.gen.Payloads)
		if err := os.WriteFile(annotatedPath, []byte(annotated), 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", annotatedPath, err)
		}
		written = append(written, annotatedPath)
	}
	return written, nil
}

// documentText is the module overview followed by the function docs.
func documentText(gen *docgen.Generation) string {
	if gen.ModuleDocs == "" {
		return gen.Document
	}
	return gen.ModuleDocs + "\n\n" + gen.Document
}
