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
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the /docgen endpoints on rg (typically /v1).
//
//	POST /v1/docgen/parse    - Extract the structural model
//	POST /v1/docgen/generate - Generate documentation
//	POST /v1/docgen/evaluate - Score generated against reference docs
//	POST /v1/docgen/report   - Markdown evaluation report
//	GET  /v1/docgen/health   - Health check
//	GET  /v1/docgen/ready    - Readiness check
//
// Example:
//
//	svc := docgen.NewService(docgen.DefaultServiceConfig())
//	handlers := docgen.NewHandlers(svc, logger)
//
//	v1 := router.Group("/v1")
//	docgen.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	docgen := rg.Group("/docgen")
	docgen.Use(limitBody(MaxRequestBytes))
	{
		docgen.POST("/parse", handlers.HandleParse)
		docgen.POST("/generate", handlers.HandleGenerate)
		docgen.POST("/evaluate", handlers.HandleEvaluate)
		docgen.POST("/report", handlers.HandleReport)

		docgen.GET("/health", handlers.HandleHealth)
		docgen.GET("/ready", handlers.HandleReady)
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
