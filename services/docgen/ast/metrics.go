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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("docsmith.ast")
	meter  = otel.Meter("docsmith.ast")
)

var (
	extractLatency    metric.Float64Histogram
	extractTotal      metric.Int64Counter
	elementsExtracted metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		extractLatency, err = meter.Float64Histogram(
			"docsmith_extract_duration_seconds",
			metric.WithDescription("Duration of structure extraction"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		extractTotal, err = meter.Int64Counter(
			"docsmith_extract_total",
			metric.WithDescription("Total number of extractions by language and validity"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		elementsExtracted, err = meter.Int64Histogram(
			"docsmith_extract_elements",
			metric.WithDescription("Functions plus classes found per valid extraction"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordExtractMetrics records one finished extraction.
func recordExtractMetrics(ctx context.Context, language string, duration time.Duration, model *StructuralModel) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("language", language),
		attribute.Bool("valid", model.Valid),
	)
	extractLatency.Record(ctx, duration.Seconds(), attrs)
	extractTotal.Add(ctx, 1, attrs)

	if model.Valid {
		elementsExtracted.Record(ctx, int64(len(model.Functions)+len(model.Classes)),
			metric.WithAttributes(attribute.String("language", language)),
		)
	}
}

// startExtractSpan creates a span for an extraction. Caller must End it.
func startExtractSpan(ctx context.Context, language string, size int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Extractor.Parse",
		trace.WithAttributes(
			attribute.String("ast.language", language),
			attribute.Int("ast.content_size", size),
		),
	)
}

// setExtractSpanResult annotates span with the model outcome.
func setExtractSpanResult(span trace.Span, model *StructuralModel) {
	span.SetAttributes(
		attribute.Bool("ast.valid", model.Valid),
		attribute.Int("ast.function_count", len(model.Functions)),
		attribute.Int("ast.class_count", len(model.Classes)),
	)
}
