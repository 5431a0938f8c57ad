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
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/docsmith/pkg/ux"
	"github.com/AleutianAI/docsmith/services/docgen"
	"github.com/AleutianAI/docsmith/services/docgen/eval"
	"github.com/AleutianAI/docsmith/services/docgen/report"
	"github.com/AleutianAI/docsmith/services/docgen/synth"
)

// evaluationOptions are shared by evaluate and report.
type evaluationOptions struct {
	generated string
	reference string
	source    string
	language  string
	out       string
	json      bool
}

var (
	evaluateFlags evaluationOptions
	reportFlags   evaluationOptions
)

func addEvaluationFlags(cmd *cobra.Command, f *evaluationOptions) {
	cmd.Flags().StringVarP(&f.generated, "generated", "g", "", "generated documentation file")
	cmd.Flags().StringVarP(&f.reference, "reference", "r", "", "reference documentation file")
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "source file used for coverage (optional)")
	cmd.Flags().StringVar(&f.language, "language", "", "language of the source file (default from its extension)")
	_ = cmd.MarkFlagRequired("generated")
	_ = cmd.MarkFlagRequired("reference")
}

// inputs holds the three texts an evaluation needs.
type inputs struct {
	generated string
	reference string
	source    string
	language  string
}

func (f evaluationOptions) load() (inputs, error) {
	var in inputs
	var err error
	if in.generated, err = readFile(f.generated); err != nil {
		return in, err
	}
	if in.reference, err = readFile(f.reference); err != nil {
		return in, err
	}
	if in.source, err = readFile(f.source); err != nil {
		return in, err
	}
	in.language = f.language
	if in.language == "" {
		in.language = languageFor(f.source, cfg.Language)
	}
	return in, nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	in, err := evaluateFlags.load()
	if err != nil {
		return err
	}
	svc, err := buildService(cfg, synth.ModeLocal, false, logger.Slog())
	if err != nil {
		return err
	}
	return evaluate(cmd.Context(), cmd.OutOrStdout(), svc, in, evaluateFlags.json)
}

func evaluate(ctx context.Context, out io.Writer, svc *docgen.Service, in inputs, asJSON bool) error {
	ev, err := svc.Evaluate(ctx, in.generated, in.reference, in.source, in.language)
	if err != nil {
		return err
	}

	if asJSON {
		return report.ExportJSON(out, bundle(ev))
	}
	printEvaluation(ux.NewPrinter(out), ev)
	return nil
}

func bundle(ev *docgen.Evaluation) report.Bundle {
	return report.Bundle{
		Structure:  ev.Model,
		Evaluation: &ev.Result,
		Comparison: ev.Comparison,
	}
}

func printEvaluation(p *ux.Printer, ev *docgen.Evaluation) {
	r := ev.Result
	vis := report.Visualization(r)

	p.Title("Documentation Quality")
	for _, g := range vis.Metrics {
		p.Score(g.Name, fmt.Sprintf("%.1f%%", g.Value), g.Value, g.Color)
	}

	ratioColor := report.ColorGreen
	if vis.LengthRatio.Status != "ideal" {
		ratioColor = report.ColorYellow
	}
	// A ratio of 2 or more fills the bar.
	p.Score("Length Ratio", fmt.Sprintf("%.2fx", r.LengthRatio), r.LengthRatio*50, ratioColor)
	p.Score("Overall", fmt.Sprintf("%.1f/100 %s", r.OverallScore, vis.Overall.Label), r.OverallScore, vis.Overall.Color)

	p.Box("Interpretation", strings.Join([]string{
		fmt.Sprintf("Keyword overlap: %s", eval.InterpretKeywordOverlap(r.KeywordOverlapScore)),
		fmt.Sprintf("Coverage: %s (%d of %d elements)", eval.InterpretCoverage(r.CoverageScore), r.Coverage.Documented, r.Coverage.Total),
		fmt.Sprintf("Length: %s", eval.InterpretLengthRatio(r.LengthRatio)),
		fmt.Sprintf("Consistency: %s (%d of 5 checks)", eval.InterpretConsistency(r.ConsistencyScore), r.Consistency.Passed()),
	}, "\n"))

	if len(r.Coverage.Missing) > 0 {
		p.Warning("Undocumented: " + strings.Join(r.Coverage.Missing, ", "))
	}

	if ev.Comparison != nil {
		s := ev.Comparison.Summary
		p.Info(fmt.Sprintf("Functions: %d total, %d in both, %d only generated, %d only reference",
			s.TotalFunctions, s.BothDocumented, s.OnlyGenerated, s.OnlyReference))
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	in, err := reportFlags.load()
	if err != nil {
		return err
	}
	svc, err := buildService(cfg, synth.ModeLocal, false, logger.Slog())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if reportFlags.out != "" {
		f, err := os.Create(reportFlags.out)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := writeReport(cmd.Context(), out, svc, in, reportFlags.json); err != nil {
		return err
	}
	if reportFlags.out != "" {
		ux.NewPrinter(cmd.ErrOrStderr()).Success("Report written to " + reportFlags.out)
	}
	return nil
}

// writeReport writes the Markdown report, or the JSON bundle when asJSON.
func writeReport(ctx context.Context, out io.Writer, svc *docgen.Service, in inputs, asJSON bool) error {
	markdown, ev, err := svc.Report(ctx, in.generated, in.reference, in.source, in.language)
	if err != nil {
		return err
	}
	if asJSON {
		b := bundle(ev)
		b.Documentation = in.generated
		return report.ExportJSON(out, b)
	}
	_, err = io.WriteString(out, markdown)
	return err
}
