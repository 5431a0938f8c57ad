// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package eval

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/docsmith/services/docgen/ast"
)

const wellFormedDoc = `"""Calculates total price.

Args:
    items: Collection of items to process
    tax_rate: The tax_rate parameter

Returns:
    The calculated numerical result

Examples:
    >>> calculate_total_price([1, 2, 3], tax_rate_value)
    expected_result
"""`

func TestKeywordOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", wellFormedDoc, wellFormedDoc, 100},
		{"case and punctuation ignored", "Quick, BROWN fox!", "quick brown fox", 100},
		{"half shared", "The quick brown fox", "quick brown dogs", 50},
		{"disjoint", "alpha beta gamma", "delta epsilon", 0},
		{"empty side", "", "alpha beta", 0},
		{"only stop words and short tokens", "the and of is a to", "the and of", 0},
		{"thirds", "alpha beta gamma", "alpha", 33.33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := KeywordOverlap(tt.a, tt.b)
			assert.Equal(t, tt.want, got)

			reversed, _ := KeywordOverlap(tt.b, tt.a)
			assert.Equal(t, got, reversed, "overlap must be symmetric")
		})
	}
}

func TestKeywords(t *testing.T) {
	kw := Keywords("The Cache's key-value store: 42 items, 7 ok; naïve")
	assert.Equal(t, []string{"cache", "items", "key", "store", "value"}, sortedKeys(kw))
}

func TestKeywordOverlap_Detail(t *testing.T) {
	_, detail := KeywordOverlap("quick brown fox", "brown quick dogs")
	assert.Equal(t, []string{"brown", "fox", "quick"}, detail.Generated)
	assert.Equal(t, []string{"brown", "dogs", "quick"}, detail.Reference)
	assert.Equal(t, []string{"brown", "quick"}, detail.Shared)
}

func TestCoverage(t *testing.T) {
	model := &ast.StructuralModel{
		Functions: []ast.FunctionRecord{{Name: "calculate_total_price"}, {Name: "get_sku"}},
		Classes:   []ast.ClassRecord{{Name: "Warehouse"}},
	}

	score, detail := Coverage("Docs for CALCULATE_TOTAL_PRICE and the warehouse.", model)
	assert.Equal(t, 66.67, score)
	assert.Equal(t, 2, detail.Documented)
	assert.Equal(t, 3, detail.Total)
	assert.Equal(t, []string{"get_sku"}, detail.Missing)

	empty, _ := Coverage("anything", &ast.StructuralModel{})
	assert.Equal(t, 100.0, empty)

	nilModel, _ := Coverage("anything", nil)
	assert.Equal(t, 100.0, nilModel)
}

func TestCoverage_Monotonic(t *testing.T) {
	model := &ast.StructuralModel{
		Functions: []ast.FunctionRecord{{Name: "alpha"}, {Name: "beta"}, {Name: "gamma"}},
		Classes:   []ast.ClassRecord{{Name: "Delta"}},
	}
	doc := ""
	prev := -1.0
	for _, name := range model.ElementNames() {
		doc += " " + name
		score, _ := Coverage(doc, model)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
	assert.Equal(t, 100.0, prev)
}

func TestLengthRatio(t *testing.T) {
	assert.Equal(t, 2.0, LengthRatio("a b c d", "a b"))
	assert.Equal(t, 1.0, LengthRatio("a b c", ""))
	assert.Equal(t, 1.0, LengthRatio("", "   \n\t"))
	assert.Equal(t, 0.0, LengthRatio("", "a b"))
	assert.Equal(t, 0.33, LengthRatio("a", "a b c"))
}

func TestConsistency(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want float64
	}{
		{"all checks", "Args:\n    x: the x\nReturns:\n    y\nExample:\n>>> f()", 100},
		{"well formed google doc", wellFormedDoc, 100},
		{"mixed header case", "Args:\n    x: y\nreturns:\n    z", 60},
		{"lower case headers", "args:\n    x: y\nreturns:\n    z\n>>> f()", 100},
		{"nothing", "", 20},
		{"prose only", "This function does things.", 20},
		{"numpy headers lack colons", "Parameters\n----------\nx : int\nReturns\n-------\nint\nExamples\n--------\n>>> f()", 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Consistency(tt.doc)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsistency_Detail(t *testing.T) {
	_, d := Consistency(wellFormedDoc)
	assert.True(t, d.HasParameterSection)
	assert.True(t, d.HasReturnSection)
	assert.True(t, d.HasExamples)
	assert.True(t, d.UniformHeaderCase)
	assert.True(t, d.ParameterLinesOK)
	assert.Equal(t, 5, d.ParameterLineCount)
	assert.Equal(t, 5, d.Passed())
}

func TestLengthTerm(t *testing.T) {
	assert.Equal(t, 100.0, LengthTerm(0.9))
	assert.InDelta(t, 100.0, LengthTerm(1.0), 1e-9)
	assert.InDelta(t, 9.0909, LengthTerm(2.0), 1e-4)
	assert.InDelta(t, 11.1111, LengthTerm(0.0), 1e-4)
}

func TestOverallScore_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		k := rng.Float64() * 100
		c := rng.Float64() * 100
		r := rng.Float64() * 5
		s := rng.Float64() * 100
		got := OverallScore(k, c, r, s)
		require.GreaterOrEqual(t, got, 0.0)
		require.LessOrEqual(t, got, 100.0+1e-9)
	}
	assert.InDelta(t, 100.0, OverallScore(100, 100, 0.9, 100), 1e-9)
	assert.Equal(t, 0.0+LengthTerm(10)*WeightLength, OverallScore(0, 0, 10, 0))
}

func TestEvaluate_IdenticalDocuments(t *testing.T) {
	model := &ast.StructuralModel{Functions: []ast.FunctionRecord{{Name: "calculate_total_price"}}}
	result := Evaluate(wellFormedDoc, wellFormedDoc, model)

	assert.Equal(t, 100.0, result.KeywordOverlapScore)
	assert.Equal(t, 1.0, result.LengthRatio)
	assert.Equal(t, 100.0, result.CoverageScore)
	assert.Equal(t, 100.0, result.ConsistencyScore)
	assert.InDelta(t, 100.0, result.OverallScore, 1e-9)

	require.Len(t, result.DetailedAnalysis, 4)
	assert.Equal(t, "Excellent - High semantic similarity", result.DetailedAnalysis[MetricKeywordOverlap].Interpretation)
	assert.Equal(t, "Perfect - All elements documented", result.DetailedAnalysis[MetricCoverage].Interpretation)
	assert.Equal(t, "Balanced - Similar verbosity to human docs", result.DetailedAnalysis[MetricLengthRatio].Interpretation)
	assert.Equal(t, "Highly Consistent - Uniform style throughout", result.DetailedAnalysis[MetricConsistency].Interpretation)
	assert.Equal(t, 1.0, result.DetailedAnalysis[MetricLengthRatio].Value)
}

func TestEvaluate_Deterministic(t *testing.T) {
	model := &ast.StructuralModel{Classes: []ast.ClassRecord{{Name: "Warehouse"}}}
	a := Evaluate("Warehouse stores stock.", "Stores inventory for the warehouse.", model)
	b := Evaluate("Warehouse stores stock.", "Stores inventory for the warehouse.", model)
	assert.Equal(t, a, b)
}

func TestEvaluator_MatchesPureFunction(t *testing.T) {
	want := Evaluate("a b c", "a b", nil)
	got := NewEvaluator().Evaluate(context.Background(), "a b c", "a b", nil)
	assert.Equal(t, want, got)
}

func TestInterpretations(t *testing.T) {
	assert.Equal(t, "Good - Adequate coverage of key concepts", InterpretKeywordOverlap(60))
	assert.Equal(t, "Moderate - Some important concepts missing", InterpretKeywordOverlap(40))
	assert.Equal(t, "Low - Significant semantic differences", InterpretKeywordOverlap(39.99))

	assert.Equal(t, "High - Most elements documented", InterpretCoverage(99.99))
	assert.Equal(t, "Moderate - Some elements missing documentation", InterpretCoverage(60))
	assert.Equal(t, "Low - Many elements undocumented", InterpretCoverage(0))

	assert.Equal(t, "Balanced - Similar verbosity to human docs", InterpretLengthRatio(0.8))
	assert.Equal(t, "Verbose - AI documentation is more detailed", InterpretLengthRatio(1.21))
	assert.Equal(t, "Concise - AI documentation is briefer", InterpretLengthRatio(0.79))

	assert.Equal(t, "Generally Consistent - Minor variations", InterpretConsistency(80))
	assert.Equal(t, "Moderately Consistent - Some inconsistencies", InterpretConsistency(60))
	assert.Equal(t, "Inconsistent - Significant style variations", InterpretConsistency(40))
}

func TestCompareFunctions(t *testing.T) {
	generated := strings.Join([]string{
		"# Generated Documentation",
		"## Function: beta",
		"",
		"beta docs",
		"## Function: alpha",
		"alpha docs",
	}, "\n")
	reference := strings.Join([]string{
		"def alpha(x):",
		"    \"\"\"Human alpha.\"\"\"",
		"def gamma():",
		"    pass",
	}, "\n")

	rows := CompareFunctions(generated, reference)
	require.Len(t, rows, 3)

	assert.Equal(t, "alpha", rows[0].Function)
	assert.Equal(t, "alpha docs", rows[0].Generated)
	assert.Equal(t, "def alpha(x):\n    \"\"\"Human alpha.\"\"\"", rows[0].Reference)
	assert.True(t, rows[0].Both)

	assert.Equal(t, "beta", rows[1].Function)
	assert.Equal(t, "\nbeta docs", rows[1].Generated)
	assert.Equal(t, NotDocumented, rows[1].Reference)
	assert.False(t, rows[1].Both)

	assert.Equal(t, "gamma", rows[2].Function)
	assert.Equal(t, NotDocumented, rows[2].Generated)
}
