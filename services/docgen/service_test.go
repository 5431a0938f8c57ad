// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docgen

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/docsmith/services/docgen/ast"
	"github.com/AleutianAI/docsmith/services/docgen/format"
	"github.com/AleutianAI/docsmith/services/docgen/synth"
	"github.com/AleutianAI/docsmith/services/llm"
)

func loadInventory(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("ast/testdata/inventory.py")
	require.NoError(t, err)
	return string(data)
}

func TestService_Analyze(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	model, err := svc.Analyze(context.Background(), loadInventory(t), "")
	require.NoError(t, err)
	assert.True(t, model.Valid)
	assert.Equal(t, ast.LanguagePython, model.Language)
	assert.Equal(t, []string{"calculate_total_price", "get_sku", "fetch_stock", "is_valid_sku", "Warehouse", "Shelf"}, model.ElementNames())
}

func TestService_Analyze_UnknownLanguage(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	_, err := svc.Analyze(context.Background(), "x", "cobol")
	assert.ErrorIs(t, err, ErrInvalidLanguage)
	assert.True(t, IsClientError(err))
}

func TestService_Analyze_SharesConcurrentParses(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	source := loadInventory(t)

	var wg sync.WaitGroup
	models := make([]*ast.StructuralModel, 8)
	for i := range models {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := svc.Analyze(context.Background(), source, ast.LanguagePython)
			assert.NoError(t, err)
			models[i] = m
		}()
	}
	wg.Wait()

	for _, m := range models {
		require.NotNil(t, m)
		assert.Equal(t, models[0].ElementNames(), m.ElementNames())
	}
}

// slowExtractor delays Parse so concurrent callers overlap.
type slowExtractor struct {
	ast.Extractor
	delay  time.Duration
	parses atomic.Int32
}

func (s *slowExtractor) Parse(ctx context.Context, source string) (*ast.StructuralModel, error) {
	s.parses.Add(1)
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.Extractor.Parse(ctx, source)
}

func TestService_Analyze_CancelOneCaller(t *testing.T) {
	slow := &slowExtractor{Extractor: ast.NewPythonExtractor(), delay: 100 * time.Millisecond}
	registry := ast.NewExtractorRegistry()
	registry.Register(slow)
	svc := NewService(DefaultServiceConfig(), WithRegistry(registry))
	source := loadInventory(t)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Analyze(ctxA, source, ast.LanguagePython)
		errA <- err
	}()

	type result struct {
		model *ast.StructuralModel
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		m, err := svc.Analyze(context.Background(), source, ast.LanguagePython)
		resB <- result{m, err}
	}()

	time.Sleep(40 * time.Millisecond)
	cancelA()

	assert.ErrorIs(t, <-errA, ast.ErrParseCanceled)

	b := <-resB
	require.NoError(t, b.err)
	assert.True(t, b.model.Valid)
	assert.Len(t, b.model.Functions, 4)
	assert.Equal(t, int32(1), slow.parses.Load())
}

func TestService_Analyze_CallersOwnModels(t *testing.T) {
	slow := &slowExtractor{Extractor: ast.NewPythonExtractor(), delay: 50 * time.Millisecond}
	registry := ast.NewExtractorRegistry()
	registry.Register(slow)
	svc := NewService(DefaultServiceConfig(), WithRegistry(registry))
	source := loadInventory(t)

	models := make([]*ast.StructuralModel, 2)
	var wg sync.WaitGroup
	for i := range models {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := svc.Analyze(context.Background(), source, ast.LanguagePython)
			assert.NoError(t, err)
			models[i] = m
		}()
	}
	wg.Wait()

	require.NotNil(t, models[0])
	require.NotNil(t, models[1])
	models[0].Functions[0].Name = "changed"
	models[0].Functions[0].Parameters[0] = "changed"
	assert.Equal(t, "calculate_total_price", models[1].Functions[0].Name)
	assert.NotEqual(t, "changed", models[1].Functions[0].Parameters[0])
}

func TestService_Generate(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	gen, err := svc.Generate(context.Background(), loadInventory(t), "python", svc.DefaultGenerateOptions())
	require.NoError(t, err)

	require.Len(t, gen.Payloads, 4)
	assert.Equal(t, "calculate_total_price", gen.Payloads[0].FunctionName)
	assert.Equal(t, "is_valid_sku", gen.Payloads[3].FunctionName)
	assert.Equal(t, synth.ModeLocal, gen.Payloads[0].Mode)

	assert.True(t, strings.HasPrefix(gen.Document, format.DocumentTitle+"\n"))
	assert.Contains(t, gen.Document, "## Function: calculate_total_price")
	assert.Contains(t, gen.Document, "Args:\n    items: Collection of items to process")
	assert.NotContains(t, gen.Document, "## Function: Warehouse.restock")
	assert.Contains(t, gen.ModuleDocs, "Warehouse")
}

func TestService_Generate_IncludeMethods(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	opts := svc.DefaultGenerateOptions()
	opts.IncludeMethods = true
	opts.Style = format.StyleNumPy

	gen, err := svc.Generate(context.Background(), loadInventory(t), "python", opts)
	require.NoError(t, err)

	require.Len(t, gen.Rendered, 8)
	assert.Equal(t, "Warehouse.__init__", gen.Rendered[4].Name)
	assert.Equal(t, "Shelf.label", gen.Rendered[7].Name)
	assert.Contains(t, gen.Document, "Parameters\n----------")

	for i, fn := range gen.Functions {
		for _, p := range fn.Parameters {
			if p == ast.SelfParameter {
				assert.NotContains(t, gen.Payloads[i].ParameterDescriptions, p)
			}
		}
	}
}

func TestService_Generate_SyntaxError(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	gen, err := svc.Generate(context.Background(), "def broken(a, b)\n    return a\n", "python", svc.DefaultGenerateOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)
	require.NotNil(t, gen)
	assert.False(t, gen.Model.Valid)
	assert.Contains(t, err.Error(), "Syntax error at line 1")
}

func TestService_Generate_GoSource(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	src := "package shop\n\n// Total sums prices.\nfunc Total(prices []float64) float64 {\n\treturn 0\n}\n"

	gen, err := svc.Generate(context.Background(), src, "go", svc.DefaultGenerateOptions())
	require.NoError(t, err)
	require.Len(t, gen.Payloads, 1)
	assert.Equal(t, "Total", gen.Payloads[0].FunctionName)
}

func TestService_Generate_DelegatedFallsBack(t *testing.T) {
	completer := &llm.MockCompleter{Err: errors.New("backend down")}
	syn := synth.New(synth.Config{Mode: synth.ModeDelegated}, synth.WithCompleter(completer))
	svc := NewService(DefaultServiceConfig(), WithSynthesizer(syn))

	gen, err := svc.Generate(context.Background(), loadInventory(t), "python", svc.DefaultGenerateOptions())
	require.NoError(t, err)

	assert.Equal(t, int64(4), completer.Calls())
	for _, p := range gen.Payloads {
		assert.Equal(t, synth.ModeLocal, p.Mode)
	}
	assert.Equal(t, "mock", svc.Backend())
}

func TestService_Generate_Delegated(t *testing.T) {
	completer := &llm.MockCompleter{Response: "Computes things for the caller."}
	syn := synth.New(synth.Config{Mode: synth.ModeLocal}, synth.WithCompleter(completer))
	svc := NewService(DefaultServiceConfig(), WithSynthesizer(syn))

	opts := svc.DefaultGenerateOptions()
	opts.Mode = synth.ModeDelegated
	gen, err := svc.Generate(context.Background(), loadInventory(t), "python", opts)
	require.NoError(t, err)

	for _, p := range gen.Payloads {
		assert.Equal(t, synth.ModeDelegated, p.Mode)
		assert.Equal(t, "Computes things for the caller.", p.Description)
	}
}

func TestService_Generate_Canceled(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, loadInventory(t), "python", svc.DefaultGenerateOptions())
	require.Error(t, err)
	assert.False(t, IsClientError(err))
}

func TestService_Evaluate(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	source := loadInventory(t)

	gen, err := svc.Generate(context.Background(), source, "python", svc.DefaultGenerateOptions())
	require.NoError(t, err)

	ev, err := svc.Evaluate(context.Background(), gen.Document, gen.Document, source, "python")
	require.NoError(t, err)
	assert.Equal(t, 100.0, ev.Result.KeywordOverlapScore)
	assert.Equal(t, 1.0, ev.Result.LengthRatio)
	// Classes are never documented by function-level generation.
	assert.Equal(t, 66.67, ev.Result.CoverageScore)
	assert.Equal(t, []string{"Warehouse", "Shelf"}, ev.Result.Coverage.Missing)
	assert.Equal(t, 4, ev.Comparison.Summary.BothDocumented)
}

func TestService_Evaluate_NoSource(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	ev, err := svc.Evaluate(context.Background(), "alpha beta", "alpha gamma", "", "")
	require.NoError(t, err)
	assert.Nil(t, ev.Model)
	assert.Equal(t, 100.0, ev.Result.CoverageScore)
}

func TestService_Report(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	md, ev, err := svc.Report(context.Background(), "def f():\n    pass", "def f():\n    pass", "def f():\n    pass\n", "python")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Contains(t, md, "# Documentation Evaluation Report")
	assert.Contains(t, md, "- **Functions:** 1")
}

func TestResolveStyleAndMode(t *testing.T) {
	style, err := ResolveStyle("NumPy")
	require.NoError(t, err)
	assert.Equal(t, format.StyleNumPy, style)

	_, err = ResolveStyle("sphinx")
	assert.ErrorIs(t, err, ErrInvalidStyle)

	mode, err := ResolveMode(" Delegated ")
	require.NoError(t, err)
	assert.Equal(t, synth.ModeDelegated, mode)

	mode, err = ResolveMode("")
	require.NoError(t, err)
	assert.Equal(t, synth.Mode(""), mode)

	_, err = ResolveMode("remote")
	assert.ErrorIs(t, err, ErrInvalidMode)
}
