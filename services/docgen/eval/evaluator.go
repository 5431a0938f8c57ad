// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package eval scores a generated document against a reference document
// and the structural model it documents.
package eval

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/AleutianAI/docsmith/services/docgen/ast"
)

// Metric names used as DetailedAnalysis keys.
const (
	MetricKeywordOverlap = "keyword_overlap"
	MetricCoverage       = "coverage"
	MetricLengthRatio    = "length_ratio"
	MetricConsistency    = "consistency"
)

// Overall score weights.
const (
	WeightKeywordOverlap = 0.35
	WeightCoverage       = 0.30
	WeightLength         = 0.15
	WeightConsistency    = 0.20
)

// MetricAnalysis pairs a raw metric value with its interpretation.
type MetricAnalysis struct {
	Value          float64 `json:"value"`
	Interpretation string  `json:"interpretation"`
}

// KeywordDetail lists the sorted keyword sets behind the overlap score.
type KeywordDetail struct {
	Generated []string `json:"generated"`
	Reference []string `json:"reference"`
	Shared    []string `json:"shared"`
}

// CoverageDetail explains the coverage score.
type CoverageDetail struct {
	Documented int      `json:"documented"`
	Total      int      `json:"total"`
	Missing    []string `json:"missing"`
}

// ConsistencyDetail holds the five consistency checks.
type ConsistencyDetail struct {
	HasParameterSection bool `json:"has_parameter_section"`
	HasReturnSection    bool `json:"has_return_section"`
	HasExamples         bool `json:"has_examples"`
	UniformHeaderCase   bool `json:"uniform_header_case"`
	ParameterLinesOK    bool `json:"parameter_lines_ok"`

	// ParameterLineCount is the number of indented "word:" lines found.
	ParameterLineCount int `json:"parameter_line_count"`
}

// Passed returns how many checks passed.
func (d ConsistencyDetail) Passed() int {
	n := 0
	for _, ok := range []bool{d.HasParameterSection, d.HasReturnSection, d.HasExamples, d.UniformHeaderCase, d.ParameterLinesOK} {
		if ok {
			n++
		}
	}
	return n
}

// EvaluationResult holds all scores for one evaluation. Scores are in
// [0, 100]; LengthRatio is >= 0.
type EvaluationResult struct {
	KeywordOverlapScore float64 `json:"keyword_overlap_score"`
	CoverageScore       float64 `json:"coverage_score"`
	LengthRatio         float64 `json:"length_ratio"`
	ConsistencyScore    float64 `json:"consistency_score"`
	OverallScore        float64 `json:"overall_score"`

	DetailedAnalysis map[string]MetricAnalysis `json:"detailed_analysis"`

	Keywords    KeywordDetail     `json:"keywords"`
	Coverage    CoverageDetail    `json:"coverage"`
	Consistency ConsistencyDetail `json:"consistency"`
}

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`the a an and or but in on at to for of with by from as
		is was are were be been being have has had do does did will would should could
		may might must can this that these those it its`) {
		stopWords[w] = struct{}{}
	}
}

// Evaluate compares generated against reference and model. It is a pure
// function of its inputs. A nil model counts as having no elements.
func Evaluate(generated, reference string, model *ast.StructuralModel) EvaluationResult {
	keywordScore, keywords := KeywordOverlap(generated, reference)
	coverageScore, coverage := Coverage(generated, model)
	ratio := LengthRatio(generated, reference)
	consistencyScore, consistency := Consistency(generated)

	overall := OverallScore(keywordScore, coverageScore, ratio, consistencyScore)

	return EvaluationResult{
		KeywordOverlapScore: keywordScore,
		CoverageScore:       coverageScore,
		LengthRatio:         ratio,
		ConsistencyScore:    consistencyScore,
		OverallScore:        overall,
		DetailedAnalysis: map[string]MetricAnalysis{
			MetricKeywordOverlap: {Value: keywordScore, Interpretation: InterpretKeywordOverlap(keywordScore)},
			MetricCoverage:       {Value: coverageScore, Interpretation: InterpretCoverage(coverageScore)},
			MetricLengthRatio:    {Value: ratio, Interpretation: InterpretLengthRatio(ratio)},
			MetricConsistency:    {Value: consistencyScore, Interpretation: InterpretConsistency(consistencyScore)},
		},
		Keywords:    keywords,
		Coverage:    coverage,
		Consistency: consistency,
	}
}

// OverallScore combines the four metrics. The length term peaks at a ratio
// of 0.9 and is capped at 100.
func OverallScore(keyword, coverage, ratio, consistency float64) float64 {
	return keyword*WeightKeywordOverlap +
		coverage*WeightCoverage +
		LengthTerm(ratio)*WeightLength +
		consistency*WeightConsistency
}

// LengthTerm is min(100, 10/|ratio - 1.0 + 0.1|).
func LengthTerm(ratio float64) float64 {
	return math.Min(100, (1.0/math.Abs(ratio-1.0+0.1))*10)
}

// Keywords extracts the keyword set of text: lower-cased, non
// [a-z0-9]/whitespace characters replaced by spaces, tokens longer than two
// characters that are not stop words.
func Keywords(text string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	set := make(map[string]struct{})
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}

// KeywordOverlap is the Jaccard similarity of the two keyword sets times
// 100, rounded to 2 decimals. It is 0 when either set is empty.
func KeywordOverlap(generated, reference string) (float64, KeywordDetail) {
	gen := Keywords(generated)
	ref := Keywords(reference)

	detail := KeywordDetail{
		Generated: sortedKeys(gen),
		Reference: sortedKeys(ref),
		Shared:    []string{},
	}
	if len(gen) == 0 || len(ref) == 0 {
		return 0, detail
	}

	for w := range gen {
		if _, ok := ref[w]; ok {
			detail.Shared = append(detail.Shared, w)
		}
	}
	sort.Strings(detail.Shared)

	union := len(gen) + len(ref) - len(detail.Shared)
	return round2(100 * float64(len(detail.Shared)) / float64(union)), detail
}

// Coverage is the percentage of module functions and classes whose name
// appears, case-insensitively, anywhere in generated. It is 100 when the
// model has no elements.
func Coverage(generated string, model *ast.StructuralModel) (float64, CoverageDetail) {
	detail := CoverageDetail{Missing: []string{}}
	if model == nil {
		return 100, detail
	}

	names := model.ElementNames()
	detail.Total = len(names)
	if detail.Total == 0 {
		return 100, detail
	}

	lower := strings.ToLower(generated)
	for _, name := range names {
		if strings.Contains(lower, strings.ToLower(name)) {
			detail.Documented++
		} else {
			detail.Missing = append(detail.Missing, name)
		}
	}
	return round2(100 * float64(detail.Documented) / float64(detail.Total)), detail
}

// LengthRatio is the whitespace word count of generated over that of
// reference, rounded to 2 decimals, or 1.0 when reference has no words.
func LengthRatio(generated, reference string) float64 {
	refWords := len(strings.Fields(reference))
	if refWords == 0 {
		return 1.0
	}
	return round2(float64(len(strings.Fields(generated))) / float64(refWords))
}

var (
	parameterHeaderRe = regexp.MustCompile(`(?i)Args:|Parameters:`)
	returnHeaderRe    = regexp.MustCompile(`(?i)Returns:|Return:`)
	exampleRe         = regexp.MustCompile(`Example|>>>`)
	sectionHeaderRe   = regexp.MustCompile(`(?im)^(Args|Parameters|Returns|Examples):`)
	parameterLineRe   = regexp.MustCompile(`(?m)^\s+\w+:.*$`)
)

// Consistency runs the five formatting checks on generated and returns the
// pass percentage, rounded to 2 decimals.
func Consistency(generated string) (float64, ConsistencyDetail) {
	d := ConsistencyDetail{
		HasParameterSection: parameterHeaderRe.MatchString(generated),
		HasReturnSection:    returnHeaderRe.MatchString(generated),
		HasExamples:         exampleRe.MatchString(generated),
	}

	headers := sectionHeaderRe.FindAllStringSubmatch(generated, -1)
	if len(headers) > 0 {
		allUpper, allLower := true, true
		for _, h := range headers {
			first := rune(h[1][0])
			allUpper = allUpper && unicode.IsUpper(first)
			allLower = allLower && unicode.IsLower(first)
		}
		d.UniformHeaderCase = allUpper || allLower
	}

	// The parameter-line check is counted but always passes: a document
	// with no parameters has no such lines.
	d.ParameterLineCount = len(parameterLineRe.FindAllString(generated, -1))
	d.ParameterLinesOK = true

	return round2(100 * float64(d.Passed()) / 5), d
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
