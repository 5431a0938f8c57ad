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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/docsmith/pkg/validation"
	"github.com/AleutianAI/docsmith/services/docgen/ast"
	"github.com/AleutianAI/docsmith/services/docgen/format"
	"github.com/AleutianAI/docsmith/services/docgen/report"
	"github.com/AleutianAI/docsmith/services/docgen/synth"
	"github.com/AleutianAI/docsmith/services/telemetry"
)

// Handlers contains the HTTP handlers for the docgen API.
type Handlers struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{svc: svc, logger: logger}
}

// requestLogger returns a logger carrying request_id, handler and, when
// the request is traced, the trace and span ids.
func (h *Handlers) requestLogger(c *gin.Context, handler string) *slog.Logger {
	requestID := getOrCreateRequestID(c)
	return telemetry.LoggerWithTrace(c.Request.Context(), h.logger).
		With("request_id", requestID, "handler", handler)
}

// HandleParse handles POST /v1/docgen/parse.
//
// Response:
//
//	200 OK: ParseResponse (Success mirrors Structure.Valid)
//	400 Bad Request: invalid body or language
func (h *Handlers) HandleParse(c *gin.Context) {
	logger := h.requestLogger(c, "HandleParse")

	var req ParseRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	model, err := h.svc.Analyze(c.Request.Context(), req.Code, req.Language)
	if err != nil {
		writeServiceError(c, logger, err)
		return
	}

	logger.Info("Parsed source",
		"language", model.Language,
		"valid", model.Valid,
		"functions", len(model.Functions),
		"classes", len(model.Classes))

	c.JSON(http.StatusOK, ParseResponse{Success: model.Valid, Structure: model})
}

// HandleGenerate handles POST /v1/docgen/generate.
//
// Response:
//
//	200 OK: GenerateResponse
//	400 Bad Request: invalid body, style or language
//	422 Unprocessable Entity: source has syntax errors
func (h *Handlers) HandleGenerate(c *gin.Context) {
	logger := h.requestLogger(c, "HandleGenerate")

	var req GenerateRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	opts := h.svc.DefaultGenerateOptions()
	if req.Style != "" {
		style, err := ResolveStyle(req.Style)
		if err != nil {
			writeServiceError(c, logger, err)
			return
		}
		opts.Style = style
	}
	opts.Mode = synth.ModeLocal
	if req.UseDelegate {
		opts.Mode = synth.ModeDelegated
	}
	if req.IncludeMethods != nil {
		opts.IncludeMethods = *req.IncludeMethods
	}
	if req.ModuleName != "" {
		if err := validation.ValidateModuleName(req.ModuleName); err != nil {
			logger.Warn("Rejected module name", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid module name",
				Code:    "INVALID_REQUEST",
				Details: err.Error(),
			})
			return
		}
		opts.ModuleName = req.ModuleName
	}

	gen, err := h.svc.Generate(c.Request.Context(), req.Code, req.Language, opts)
	if err != nil {
		writeServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		Success:       true,
		Documentation: gen.Document,
		ModuleDocs:    gen.ModuleDocs,
		Payloads:      gen.Payloads,
		Structure:     gen.Model,
	})
}

// HandleEvaluate handles POST /v1/docgen/evaluate.
//
// Response:
//
//	200 OK: EvaluateResponse
//	400 Bad Request: invalid body or language
func (h *Handlers) HandleEvaluate(c *gin.Context) {
	logger := h.requestLogger(c, "HandleEvaluate")

	var req EvaluateRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	ev, err := h.svc.Evaluate(c.Request.Context(), req.Generated, req.Reference, req.Code, req.Language)
	if err != nil {
		writeServiceError(c, logger, err)
		return
	}

	logger.Info("Evaluated documentation", "overall_score", ev.Result.OverallScore)

	c.JSON(http.StatusOK, EvaluateResponse{
		Success:    true,
		Evaluation: ev.Result,
		Comparison: ev.Comparison,
		Cards:      report.MetricCards(ev.Result),
		Chart:      report.Visualization(ev.Result),
	})
}

// HandleReport handles POST /v1/docgen/report.
//
// Response:
//
//	200 OK: ReportResponse
//	400 Bad Request: invalid body or language
func (h *Handlers) HandleReport(c *gin.Context) {
	logger := h.requestLogger(c, "HandleReport")

	var req EvaluateRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	md, _, err := h.svc.Report(c.Request.Context(), req.Generated, req.Reference, req.Code, req.Language)
	if err != nil {
		writeServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, ReportResponse{Success: true, Markdown: md})
}

// HandleHealth handles GET /v1/docgen/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	getOrCreateRequestID(c)
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// HandleReady handles GET /v1/docgen/ready. The service has no warmup, so
// it is ready once at least one extractor is registered.
func (h *Handlers) HandleReady(c *gin.Context) {
	getOrCreateRequestID(c)
	resp := ReadyResponse{
		Languages: h.svc.Languages(),
		Backend:   h.svc.Backend(),
	}
	resp.Ready = len(resp.Languages) > 0
	if !resp.Ready {
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func bindJSON(c *gin.Context, logger *slog.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// writeServiceError maps service errors to HTTP responses.
func writeServiceError(c *gin.Context, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: "Documentation pipeline failed", Code: "INTERNAL_ERROR"}

	switch {
	case errors.Is(err, ErrInvalidStyle), errors.Is(err, format.ErrUnknownStyle):
		status = http.StatusBadRequest
		resp = ErrorResponse{Error: "Unknown docstring style", Code: "INVALID_STYLE", Details: err.Error()}
	case errors.Is(err, ErrInvalidLanguage), errors.Is(err, ast.ErrUnsupportedLanguage):
		status = http.StatusBadRequest
		resp = ErrorResponse{Error: "Unsupported language", Code: "INVALID_LANGUAGE", Details: err.Error()}
	case errors.Is(err, ErrInvalidMode):
		status = http.StatusBadRequest
		resp = ErrorResponse{Error: "Unknown synthesis mode", Code: "INVALID_MODE", Details: err.Error()}
	case errors.Is(err, ErrSyntax):
		status = http.StatusUnprocessableEntity
		resp = ErrorResponse{Error: "Source has syntax errors", Code: "SYNTAX_ERROR", Details: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		resp = ErrorResponse{Error: "Request timed out", Code: "TIMEOUT"}
	case errors.Is(err, ast.ErrParseCanceled), errors.Is(err, context.Canceled):
		status = http.StatusRequestTimeout
		resp = ErrorResponse{Error: "Request canceled", Code: "CANCELED"}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	} else {
		logger.Warn("Request rejected", "status", status, "error", err)
	}
	c.JSON(status, resp)
}

// getOrCreateRequestID gets or creates a request ID.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
