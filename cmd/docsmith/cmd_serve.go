// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/docsmith/pkg/ux"
	"github.com/AleutianAI/docsmith/services/docgen"
	"github.com/AleutianAI/docsmith/services/telemetry"
)

const shutdownTimeout = 10 * time.Second

var servePort int

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	tcfg := telemetry.DefaultConfig()
	tcfg.ServiceVersion = Version
	tcfg.TraceExporter = cfg.Telemetry.TraceExporter
	tcfg.MetricExporter = cfg.Telemetry.MetricExporter
	tcfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	tcfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure

	shutdownTelemetry, err := telemetry.Init(ctx, tcfg)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	log := logger.Slog()
	svc, err := buildService(cfg, configuredMode(cfg, false), true, log)
	if err != nil {
		return err
	}

	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := newRouter(svc, log, cfg.Server.Debug)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	ux.NewPrinter(cmd.OutOrStdout()).Success(fmt.Sprintf("docsmith API listening on http://localhost:%d/v1/docgen (backend %s)", port, svc.Backend()))
	logger.Info("server started", "port", port, "backend", svc.Backend())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// newRouter builds the gin engine: recovery, tracing, HTTP metrics,
// /metrics when Prometheus is enabled, and the /v1/docgen routes.
func newRouter(svc *docgen.Service, log *slog.Logger, debug bool) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	if debug {
		router.Use(gin.Logger())
	}
	router.Use(otelgin.Middleware("docsmith"))

	httpMetrics, err := telemetry.NewHTTPMetrics()
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}
	router.Use(httpMetrics.Middleware())

	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
	}

	v1 := router.Group("/v1")
	docgen.RegisterRoutes(v1, docgen.NewHandlers(svc, log))
	return router, nil
}
