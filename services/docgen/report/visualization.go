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
	"fmt"

	"github.com/AleutianAI/docsmith/services/docgen/eval"
)

// MetricGauge is one chart entry.
type MetricGauge struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Max   float64 `json:"max"`
	Color string  `json:"color"`
}

// OverallGauge is the headline score.
type OverallGauge struct {
	Score float64 `json:"score"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// RatioGauge places the length ratio against the ideal band.
type RatioGauge struct {
	Value    float64 `json:"value"`
	IdealMin float64 `json:"ideal_min"`
	IdealMax float64 `json:"ideal_max"`
	Status   string  `json:"status"`
}

// VisualizationData feeds charts and gauges.
type VisualizationData struct {
	Metrics     []MetricGauge `json:"metrics"`
	Overall     OverallGauge  `json:"overall"`
	LengthRatio RatioGauge    `json:"length_ratio"`
}

// Visualization prepares chart data for result.
func Visualization(result eval.EvaluationResult) VisualizationData {
	gauge := func(name string, v float64) MetricGauge {
		return MetricGauge{Name: name, Value: v, Max: 100, Color: Color(v)}
	}

	status := "warning"
	if result.LengthRatio >= IdealRatioMin && result.LengthRatio <= IdealRatioMax {
		status = "ideal"
	}

	return VisualizationData{
		Metrics: []MetricGauge{
			gauge("Keyword Overlap", result.KeywordOverlapScore),
			gauge("Coverage", result.CoverageScore),
			gauge("Consistency", result.ConsistencyScore),
		},
		Overall: OverallGauge{
			Score: result.OverallScore,
			Color: Color(result.OverallScore),
			Label: Label(result.OverallScore),
		},
		LengthRatio: RatioGauge{
			Value:    result.LengthRatio,
			IdealMin: IdealRatioMin,
			IdealMax: IdealRatioMax,
			Status:   status,
		},
	}
}

// MetricCard is a titled summary of one metric.
type MetricCard struct {
	Title          string `json:"title"`
	Value          string `json:"value"`
	Description    string `json:"description"`
	Interpretation string `json:"interpretation"`
}

// MetricCards returns the four metric cards followed by the overall card.
func MetricCards(result eval.EvaluationResult) []MetricCard {
	return []MetricCard{
		{
			Title:          "Keyword Overlap",
			Value:          fmt.Sprintf("%.1f%%", result.KeywordOverlapScore),
			Description:    "Semantic similarity between generated and reference docs",
			Interpretation: interpretation(result, eval.MetricKeywordOverlap),
		},
		{
			Title:          "Coverage Score",
			Value:          fmt.Sprintf("%.1f%%", result.CoverageScore),
			Description:    "Percentage of code elements documented",
			Interpretation: interpretation(result, eval.MetricCoverage),
		},
		{
			Title:          "Length Ratio",
			Value:          fmt.Sprintf("%.2fx", result.LengthRatio),
			Description:    "Generated verbosity compared to reference docs",
			Interpretation: interpretation(result, eval.MetricLengthRatio),
		},
		{
			Title:          "Consistency",
			Value:          fmt.Sprintf("%.1f%%", result.ConsistencyScore),
			Description:    "Uniformity of style and formatting",
			Interpretation: interpretation(result, eval.MetricConsistency),
		},
		{
			Title:          "Overall Score",
			Value:          fmt.Sprintf("%.1f/100", result.OverallScore),
			Description:    "Weighted average of all metrics",
			Interpretation: Label(result.OverallScore),
		},
	}
}
