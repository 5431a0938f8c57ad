// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report turns evaluation results into summaries, Markdown reports,
// chart data and JSON exports.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/AleutianAI/docsmith/services/docgen/ast"
	"github.com/AleutianAI/docsmith/services/docgen/eval"
)

// Score labels for the overall score.
const (
	LabelExcellent        = "Excellent"
	LabelGood             = "Good"
	LabelFair             = "Fair"
	LabelNeedsImprovement = "Needs Improvement"
)

// Colors for metric gauges.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorOrange = "orange"
	ColorRed    = "red"
)

// Ideal length ratio band.
const (
	IdealRatioMin = 0.8
	IdealRatioMax = 1.2
)

// ComparisonSummary counts how the two documents cover functions.
type ComparisonSummary struct {
	TotalFunctions int `json:"total_functions"`
	BothDocumented int `json:"both_documented"`
	OnlyGenerated  int `json:"only_generated"`
	OnlyReference  int `json:"only_reference"`
}

// Comparison is the side-by-side view of both documents.
type Comparison struct {
	Generated string               `json:"generated"`
	Reference string               `json:"reference"`
	Rows      []eval.ComparisonRow `json:"function_comparisons"`
	Summary   ComparisonSummary    `json:"summary"`
}

// Bundle is everything an export carries.
type Bundle struct {
	Structure     *ast.StructuralModel   `json:"structure,omitempty"`
	Documentation string                 `json:"documentation,omitempty"`
	Evaluation    *eval.EvaluationResult `json:"evaluation,omitempty"`
	Comparison    *Comparison            `json:"comparison,omitempty"`
}

// Summarize counts comparison rows by which side documents them.
func Summarize(rows []eval.ComparisonRow) ComparisonSummary {
	s := ComparisonSummary{TotalFunctions: len(rows)}
	for _, r := range rows {
		genDoc := r.Generated != eval.NotDocumented
		refDoc := r.Reference != eval.NotDocumented
		switch {
		case r.Both:
			s.BothDocumented++
		case genDoc && !refDoc:
			s.OnlyGenerated++
		case refDoc && !genDoc:
			s.OnlyReference++
		}
	}
	return s
}

// Compare builds the side-by-side comparison of two documents.
func Compare(generated, reference string) *Comparison {
	rows := eval.CompareFunctions(generated, reference)
	return &Comparison{
		Generated: generated,
		Reference: reference,
		Rows:      rows,
		Summary:   Summarize(rows),
	}
}

// Label maps an overall score to its label.
func Label(score float64) string {
	switch {
	case score >= 85:
		return LabelExcellent
	case score >= 70:
		return LabelGood
	case score >= 55:
		return LabelFair
	default:
		return LabelNeedsImprovement
	}
}

// Color maps a score to a gauge color.
func Color(score float64) string {
	switch {
	case score >= 80:
		return ColorGreen
	case score >= 60:
		return ColorYellow
	case score >= 40:
		return ColorOrange
	default:
		return ColorRed
	}
}

var labelVerdicts = map[string]string{
	LabelExcellent:        "documentation quality is outstanding",
	LabelGood:             "documentation quality is solid",
	LabelFair:             "documentation quality is acceptable but has room for improvement",
	LabelNeedsImprovement: "documentation quality requires significant enhancement",
}

// Markdown renders the evaluation report. model may be nil.
func Markdown(result eval.EvaluationResult, model *ast.StructuralModel) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	label := Label(result.OverallScore)
	line("# Documentation Evaluation Report")
	line("")
	line("## Overall Score")
	line("**%.1f/100**", result.OverallScore)
	line("")
	line("**%s** - %s", label, labelVerdicts[label])
	line("")
	line("---")
	line("")

	line("## Individual Metrics")
	line("")
	line("| Metric | Value | Assessment |")
	line("|---|---|---|")
	line("| Keyword Overlap | %.1f%% | %s |", result.KeywordOverlapScore, interpretation(result, eval.MetricKeywordOverlap))
	line("| Coverage | %.1f%% | %s |", result.CoverageScore, interpretation(result, eval.MetricCoverage))
	line("| Length Ratio | %.2f | %s |", result.LengthRatio, interpretation(result, eval.MetricLengthRatio))
	line("| Consistency | %.1f%% | %s |", result.ConsistencyScore, interpretation(result, eval.MetricConsistency))
	line("")
	line("*Keyword overlap is the Jaccard similarity of both keyword sets.*")
	line("")
	line("*Documented %d out of %d code elements.*", result.Coverage.Documented, result.Coverage.Total)
	if len(result.Coverage.Missing) > 0 {
		line("")
		line("Missing: %s", strings.Join(result.Coverage.Missing, ", "))
	}
	line("")
	line("*Length ratio is generated words over reference words. Ideal range: %.1f-%.1f*", IdealRatioMin, IdealRatioMax)
	line("")
	line("*Consistency passed %d of 5 formatting checks.*", result.Consistency.Passed())
	line("")
	line("---")
	line("")

	line("## Code Statistics")
	line("")
	if model != nil {
		line("- **Total Lines:** %d", model.TotalLines)
		line("- **Functions:** %d", len(model.Functions))
		line("- **Classes:** %d", len(model.Classes))
	} else {
		line("- No source analyzed")
	}
	return b.String()
}

func interpretation(result eval.EvaluationResult, metric string) string {
	if a, ok := result.DetailedAnalysis[metric]; ok {
		return a.Interpretation
	}
	return ""
}

// ExportJSON writes v as indented JSON without HTML escaping.
func ExportJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}
