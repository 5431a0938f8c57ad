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
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/docsmith/services/docgen/ast"
)

var (
	tracer = otel.Tracer("docsmith.eval")
	meter  = otel.Meter("docsmith.eval")

	overallHistogram metric.Float64Histogram
	metricsOnce      sync.Once
	metricsErr       error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		overallHistogram, metricsErr = meter.Float64Histogram(
			"docsmith_evaluation_overall_score",
			metric.WithDescription("Overall documentation quality score per evaluation"),
			metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
		)
	})
	return metricsErr
}

// Evaluator wraps Evaluate with tracing and metrics.
type Evaluator struct{}

// NewEvaluator creates an Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate scores generated against reference and model. The result is
// identical to the package-level Evaluate.
func (e *Evaluator) Evaluate(ctx context.Context, generated, reference string, model *ast.StructuralModel) EvaluationResult {
	ctx, span := tracer.Start(ctx, "Evaluator.Evaluate",
		trace.WithAttributes(
			attribute.Int("eval.generated_size", len(generated)),
			attribute.Int("eval.reference_size", len(reference)),
		),
	)
	defer span.End()

	result := Evaluate(generated, reference, model)

	span.SetAttributes(attribute.Float64("eval.overall_score", result.OverallScore))
	if initMetrics() == nil {
		overallHistogram.Record(ctx, result.OverallScore)
	}
	return result
}
