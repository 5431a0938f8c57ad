// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/docsmith/services/docgen/ast"
	"github.com/AleutianAI/docsmith/services/docgen/eval"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, LabelExcellent},
		{85, LabelExcellent},
		{84.99, LabelGood},
		{70, LabelGood},
		{55, LabelFair},
		{54.9, LabelNeedsImprovement},
		{0, LabelNeedsImprovement},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.score), "score %v", tt.score)
	}
}

func TestColor(t *testing.T) {
	assert.Equal(t, ColorGreen, Color(80))
	assert.Equal(t, ColorYellow, Color(79.9))
	assert.Equal(t, ColorYellow, Color(60))
	assert.Equal(t, ColorOrange, Color(40))
	assert.Equal(t, ColorRed, Color(39.9))
}

func TestSummarize(t *testing.T) {
	rows := []eval.ComparisonRow{
		{Function: "a", Generated: "x", Reference: "y", Both: true},
		{Function: "b", Generated: "x", Reference: eval.NotDocumented},
		{Function: "c", Generated: eval.NotDocumented, Reference: "y"},
		{Function: "d", Generated: "x", Reference: eval.NotDocumented},
	}
	assert.Equal(t, ComparisonSummary{
		TotalFunctions: 4,
		BothDocumented: 1,
		OnlyGenerated:  2,
		OnlyReference:  1,
	}, Summarize(rows))

	assert.Equal(t, ComparisonSummary{}, Summarize(nil))
}

func TestCompare(t *testing.T) {
	c := Compare("## Function: alpha\nalpha docs", "def alpha():\n    pass\ndef beta():\n    pass")
	require.Len(t, c.Rows, 2)
	assert.Equal(t, 1, c.Summary.BothDocumented)
	assert.Equal(t, 1, c.Summary.OnlyReference)
}

func sampleResult() (eval.EvaluationResult, *ast.StructuralModel) {
	model := &ast.StructuralModel{
		Functions:  []ast.FunctionRecord{{Name: "calculate_total_price"}, {Name: "get_sku"}},
		Classes:    []ast.ClassRecord{{Name: "Warehouse"}},
		TotalLines: 50,
	}
	generated := "## Function: calculate_total_price\nArgs:\n    items: the items\nReturns:\n    total\n>>> calculate_total_price([1])"
	reference := "def calculate_total_price(items):\n    \"\"\"Sum item prices for the warehouse.\"\"\""
	return eval.Evaluate(generated, reference, model), model
}

func TestMarkdown(t *testing.T) {
	result, model := sampleResult()
	md := Markdown(result, model)

	assert.True(t, strings.HasPrefix(md, "# Documentation Evaluation Report\n"))
	assert.Contains(t, md, "## Overall Score")
	assert.Contains(t, md, "**"+Label(result.OverallScore)+"** - ")
	assert.Contains(t, md, "| Coverage | 33.3% | Low - Many elements undocumented |")
	assert.Contains(t, md, "*Documented 1 out of 3 code elements.*")
	assert.Contains(t, md, "Missing: get_sku, Warehouse")
	assert.Contains(t, md, "- **Total Lines:** 50")
	assert.Contains(t, md, "- **Functions:** 2")
	assert.Contains(t, md, "- **Classes:** 1")
}

func TestMarkdown_NilModel(t *testing.T) {
	md := Markdown(eval.Evaluate("a", "b", nil), nil)
	assert.Contains(t, md, "- No source analyzed")
	assert.Contains(t, md, LabelNeedsImprovement)
}

func TestVisualization(t *testing.T) {
	result, _ := sampleResult()
	v := Visualization(result)

	require.Len(t, v.Metrics, 3)
	assert.Equal(t, "Keyword Overlap", v.Metrics[0].Name)
	assert.Equal(t, 100.0, v.Metrics[0].Max)
	assert.Equal(t, Color(result.CoverageScore), v.Metrics[1].Color)
	assert.Equal(t, Label(result.OverallScore), v.Overall.Label)
	assert.Equal(t, IdealRatioMin, v.LengthRatio.IdealMin)
	assert.Equal(t, IdealRatioMax, v.LengthRatio.IdealMax)

	balanced := Visualization(eval.EvaluationResult{LengthRatio: 1.0})
	assert.Equal(t, "ideal", balanced.LengthRatio.Status)
	verbose := Visualization(eval.EvaluationResult{LengthRatio: 1.5})
	assert.Equal(t, "warning", verbose.LengthRatio.Status)
}

func TestMetricCards(t *testing.T) {
	result := eval.Evaluate("alpha beta gamma", "alpha beta gamma", nil)
	cards := MetricCards(result)

	require.Len(t, cards, 5)
	assert.Equal(t, "100.0%", cards[0].Value)
	assert.Equal(t, "Excellent - High semantic similarity", cards[0].Interpretation)
	assert.Equal(t, "1.00x", cards[2].Value)
	assert.Equal(t, "Overall Score", cards[4].Title)
	assert.Equal(t, Label(result.OverallScore), cards[4].Interpretation)
}

func TestExportJSON(t *testing.T) {
	result, model := sampleResult()
	bundle := Bundle{
		Structure:     model,
		Documentation: "<docs> & more",
		Evaluation:    &result,
		Comparison:    Compare("## Function: a\nx", "def a():"),
	}

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, bundle))

	out := buf.String()
	assert.Contains(t, out, "\n  \"structure\": {")
	assert.Contains(t, out, "<docs> & more")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "evaluation")
	assert.Contains(t, decoded, "comparison")
}

func TestExportJSON_OmitsEmptySections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, Bundle{Documentation: "only docs"}))
	assert.Equal(t, "{\n  \"documentation\": \"only docs\"\n}\n", buf.String())
}
