// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package synth

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("docsmith.synth")
	meter  = otel.Meter("docsmith.synth")
)

var (
	synthesisTotal metric.Int64Counter
	fallbackTotal  metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error
		synthesisTotal, err = meter.Int64Counter(
			"docsmith_synthesis_total",
			metric.WithDescription("Payloads produced, by the mode that produced them"),
		)
		if err != nil {
			metricsErr = err
			return
		}
		fallbackTotal, err = meter.Int64Counter(
			"docsmith_synthesis_fallback_total",
			metric.WithDescription("Delegated attempts that fell back to local synthesis"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

func recordSynthesis(ctx context.Context, mode Mode) {
	if initMetrics() != nil {
		return
	}
	synthesisTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", string(mode))))
}

func recordFallback(ctx context.Context, reason string) {
	if initMetrics() != nil {
		return
	}
	fallbackTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func startSynthesisSpan(ctx context.Context, function string, mode Mode) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Synthesizer.Synthesize",
		trace.WithAttributes(
			attribute.String("synth.function", function),
			attribute.String("synth.mode", string(mode)),
		),
	)
}
