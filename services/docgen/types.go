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
	"github.com/AleutianAI/docsmith/services/docgen/ast"
	"github.com/AleutianAI/docsmith/services/docgen/eval"
	"github.com/AleutianAI/docsmith/services/docgen/report"
	"github.com/AleutianAI/docsmith/services/docgen/synth"
)

// MaxRequestBytes bounds request bodies.
const MaxRequestBytes = 4 << 20

// ParseRequest is the request body for POST /v1/docgen/parse.
type ParseRequest struct {
	// Code is the source text. Empty code parses to an empty model.
	Code string `json:"code" binding:"max=1048576"`

	// Language defaults to the service language ("python").
	Language string `json:"language"`
}

// ParseResponse is the response for POST /v1/docgen/parse.
type ParseResponse struct {
	Success   bool                 `json:"success"`
	Structure *ast.StructuralModel `json:"structure"`
}

// GenerateRequest is the request body for POST /v1/docgen/generate.
type GenerateRequest struct {
	Code     string `json:"code" binding:"max=1048576"`
	Language string `json:"language"`

	// Style is "google" (default) or "numpy".
	Style string `json:"style"`

	// UseDelegate selects delegated synthesis with local fallback.
	UseDelegate bool `json:"use_delegate"`

	// IncludeMethods also documents class methods. Nil keeps the service
	// default.
	IncludeMethods *bool `json:"include_methods"`

	// ModuleName titles the module docs.
	ModuleName string `json:"module_name" binding:"max=256"`
}

// GenerateResponse is the response for POST /v1/docgen/generate.
type GenerateResponse struct {
	Success       bool                         `json:"success"`
	Documentation string                       `json:"documentation"`
	ModuleDocs    string                       `json:"module_docs"`
	Payloads      []synth.DocumentationPayload `json:"payloads"`
	Structure     *ast.StructuralModel         `json:"structure"`
}

// EvaluateRequest is the request body for POST /v1/docgen/evaluate and
// POST /v1/docgen/report.
type EvaluateRequest struct {
	Generated string `json:"generated" binding:"required"`
	Reference string `json:"reference"`

	// Code, when present, is analyzed for coverage.
	Code     string `json:"code" binding:"max=1048576"`
	Language string `json:"language"`
}

// EvaluateResponse is the response for POST /v1/docgen/evaluate.
type EvaluateResponse struct {
	Success    bool                     `json:"success"`
	Evaluation eval.EvaluationResult    `json:"evaluation"`
	Comparison *report.Comparison       `json:"comparison"`
	Cards      []report.MetricCard      `json:"cards"`
	Chart      report.VisualizationData `json:"chart"`
}

// ReportResponse is the response for POST /v1/docgen/report.
type ReportResponse struct {
	Success  bool   `json:"success"`
	Markdown string `json:"markdown"`
}

// HealthResponse is the response for GET /v1/docgen/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse is the response for GET /v1/docgen/ready.
type ReadyResponse struct {
	Ready     bool     `json:"ready"`
	Languages []string `json:"languages"`
	Backend   string   `json:"backend"`
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is a stable machine-readable error code.
	Code string `json:"code,omitempty"`

	// Details carries extra context, such as the syntax error.
	Details string `json:"details,omitempty"`
}
