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
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/docsmith/pkg/ux"
	"github.com/AleutianAI/docsmith/services/docgen"
	"github.com/AleutianAI/docsmith/services/docgen/ast"
	"github.com/AleutianAI/docsmith/services/docgen/report"
	"github.com/AleutianAI/docsmith/services/docgen/synth"
)

var analyzeFlags struct {
	json     bool
	language string
}

// fileAnalysis is one entry of `analyze --json`.
type fileAnalysis struct {
	Path      string               `json:"path"`
	Structure *ast.StructuralModel `json:"structure"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	svc, err := buildService(cfg, synth.ModeLocal, false, logger.Slog())
	if err != nil {
		return err
	}
	fallback := analyzeFlags.language
	if fallback == "" {
		fallback = cfg.Language
	}
	return analyzeFiles(cmd.Context(), cmd.OutOrStdout(), svc, args, fallback, analyzeFlags.json)
}

// analyzeFiles prints the structural model of each file. Files with syntax
// errors are reported and make the command fail once all are printed.
func analyzeFiles(ctx context.Context, out io.Writer, svc *docgen.Service, paths []string, fallback string, asJSON bool) error {
	results := make([]fileAnalysis, 0, len(paths))
	invalid := 0
	for _, path := range paths {
		source, err := readFile(path)
		if err != nil {
			return err
		}
		model, err := svc.Analyze(ctx, source, languageFor(path, fallback))
		if err != nil {
			return fmt.Errorf("analyze %s: %w", path, err)
		}
		if !model.Valid {
			invalid++
		}
		results = append(results, fileAnalysis{Path: path, Structure: model})
	}

	if asJSON {
		if err := report.ExportJSON(out, results); err != nil {
			return err
		}
	} else {
		p := ux.NewPrinter(out)
		for _, r := range results {
			printStructure(p, r.Path, r.Structure)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d files have syntax errors", invalid, len(paths))
	}
	return nil
}

func printStructure(p *ux.Printer, path string, m *ast.StructuralModel) {
	if !m.Valid {
		p.FileStatus(path, ux.IconError, m.ErrorMessage)
		return
	}
	p.FileStatus(path, ux.IconSuccess, m.Language)

	p.Info(fmt.Sprintf("Lines: %d total, %d code, %d comment, %d blank",
		m.Lines.Total, m.Lines.Code, m.Lines.Comment, m.Lines.Blank))

	p.Info(fmt.Sprintf("Functions: %d", len(m.Functions)))
	for _, fn := range m.Functions {
		p.Info("  " + signature(fn))
	}

	p.Info(fmt.Sprintf("Classes: %d (%d methods)", len(m.Classes), m.MethodCount()))
	for _, cls := range m.Classes {
		p.Info(fmt.Sprintf("  %s [lines %d-%d]", cls.Name, cls.StartLine, cls.EndLine))
		for _, method := range cls.Methods {
			p.Info("    " + signature(method))
		}
	}
}

func signature(fn ast.FunctionRecord) string {
	s := fmt.Sprintf("%s(%s)", fn.Name, strings.Join(fn.Parameters, ", "))
	if fn.ReturnAnnotation != "" {
		s += " -> " + fn.ReturnAnnotation
	}
	marker := ""
	if fn.Docstring == "" {
		marker = ", undocumented"
	}
	return fmt.Sprintf("%s [lines %d-%d%s]", s, fn.StartLine, fn.EndLine, marker)
}
