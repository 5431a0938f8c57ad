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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/docsmith/cmd/docsmith/config"
	"github.com/AleutianAI/docsmith/pkg/logging"
	"github.com/AleutianAI/docsmith/pkg/ux"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var (
	configPath       string
	personalityLevel string
	logLevel         string

	// cfg and logger are populated by the root PersistentPreRunE.
	cfg    = config.DefaultConfig()
	logger = logging.Default()

	rootCmd = &cobra.Command{
		Use:   "docsmith",
		Short: "Generate and evaluate source code documentation",
		Long: `docsmith extracts the structure of Python and Go source files, synthesizes
Google or NumPy style docstrings for them, and scores generated documentation
against a reference.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Close()
		},
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Print the functions, classes and line statistics of source files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalyze,
	}

	generateCmd = &cobra.Command{
		Use:     "generate FILE...",
		Short:   "Generate docstrings for every function in the given files",
		Aliases: []string{"gen"},
		Args:    cobra.MinimumNArgs(1),
		RunE:    runGenerate,
	}

	evaluateCmd = &cobra.Command{
		Use:   "evaluate",
		Short: "Score generated documentation against a reference",
		RunE:  runEvaluate,
	}

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Write a Markdown evaluation report",
		RunE:  runReport,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the documentation HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the docsmith configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the docsmith version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docsmith %s\n", Version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default $DOCSMITH_CONFIG or ~/.docsmith/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "output", "",
		"output style: standard, minimal, machine (default from $DOCSMITH_OUTPUT)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level: debug, info, warn, error (overrides the config)")

	analyzeCmd.Flags().BoolVar(&analyzeFlags.json, "json", false, "print the structural models as JSON")
	analyzeCmd.Flags().StringVar(&analyzeFlags.language, "language", "", "language for files with unknown extensions")

	generateCmd.Flags().StringVar(&generateFlags.style, "style", "", "docstring style: google or numpy (default from config)")
	generateCmd.Flags().BoolVar(&generateFlags.delegate, "delegate", false, "ask the configured completion backend first")
	generateCmd.Flags().BoolVar(&generateFlags.includeMethods, "include-methods", false, "also document class methods")
	generateCmd.Flags().StringVar(&generateFlags.outDir, "out", "", "write <name>.md per file into this directory")
	generateCmd.Flags().BoolVar(&generateFlags.inline, "inline", false, "with --out, also write the source annotated with comment suggestions")
	generateCmd.Flags().BoolVar(&generateFlags.watch, "watch", false, "regenerate when a file is written")
	generateCmd.Flags().StringVar(&generateFlags.language, "language", "", "language for files with unknown extensions")

	addEvaluationFlags(evaluateCmd, &evaluateFlags)
	evaluateCmd.Flags().BoolVar(&evaluateFlags.json, "json", false, "print the evaluation bundle as JSON")

	addEvaluationFlags(reportCmd, &reportFlags)
	reportCmd.Flags().StringVarP(&reportFlags.out, "out", "o", "", "write the report to this file instead of stdout")
	reportCmd.Flags().BoolVar(&reportFlags.json, "json", false, "export the evaluation bundle as JSON instead of Markdown")

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config)")

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd)

	rootCmd.AddCommand(analyzeCmd, generateCmd, evaluateCmd, reportCmd, serveCmd, configCmd, versionCmd)
}

// setup loads the configuration and initializes output and logging.
func setup(cmd *cobra.Command, args []string) error {
	if personalityLevel != "" {
		ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
	} else {
		ux.InitPersonality()
	}

	// config init creates the file that Load would otherwise insist on.
	if cmd != configInitCmd {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	levelName := cfg.Logging.Level
	if logLevel != "" {
		levelName = logLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}

	logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: logging.DefaultService,
		JSON:    cfg.Logging.JSON,
		Output:  os.Stderr,
	})
	return nil
}
