// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Synthesis.Mode != "local" {
		t.Errorf("Synthesis.Mode = %q, want local", cfg.Synthesis.Mode)
	}
	if cfg.Synthesis.Timeout != 30*time.Second {
		t.Errorf("Synthesis.Timeout = %v, want 30s", cfg.Synthesis.Timeout)
	}
}

func TestParseKeepsDefaultsForOmittedKeys(t *testing.T) {
	data := []byte("style: numpy\nsynthesis:\n  timeout: 10s\n  backend: ollama\n")

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Style != "numpy" {
		t.Errorf("Style = %q, want numpy", cfg.Style)
	}
	if cfg.Synthesis.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Synthesis.Timeout)
	}
	if cfg.Synthesis.Backend != "ollama" {
		t.Errorf("Backend = %q, want ollama", cfg.Synthesis.Backend)
	}
	if cfg.Synthesis.Model != "gpt-3.5-turbo" {
		t.Errorf("Model = %q, want the default", cfg.Synthesis.Model)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want 8090", cfg.Server.Port)
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"style", "style: sphinx\n", "Style"},
		{"language", "language: rust\n", "Language"},
		{"mode", "synthesis:\n  mode: remote\n", "Mode"},
		{"temperature", "synthesis:\n  temperature: 3.5\n", "Temperature"},
		{"port", "server:\n  port: 70000\n", "Port"},
		{"exporter", "telemetry:\n  metric_exporter: statsd\n", "MetricExporter"},
		{"base url", "synthesis:\n  base_url: not a url\n", "BaseURL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() error = nil, want validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not name %s", err, tt.want)
			}
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("style: [unclosed\n")); err == nil {
		t.Fatal("Parse() error = nil, want parse error")
	}
}

func TestLoadMissingDefaultFileYieldsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvConfigPath, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() error = nil for a missing explicit file")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsmith.yaml")
	if err := os.WriteFile(path, []byte("include_methods: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.IncludeMethods {
		t.Error("IncludeMethods = false, want true from the env-named file")
	}
}

func TestFlagPathWinsOverEnvironment(t *testing.T) {
	t.Setenv(EnvConfigPath, "/nonexistent/env.yaml")

	path, explicit, err := ResolvePath("/tmp/flag.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/tmp/flag.yaml" || !explicit {
		t.Errorf("ResolvePath() = %q, %v", path, explicit)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".docsmith", "config.yaml")

	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("round trip = %+v, want defaults", cfg)
	}

	if err := WriteDefault(path, false); err == nil {
		t.Error("second WriteDefault() without force should fail")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("WriteDefault(force) error = %v", err)
	}
}

func TestAPIKeyReadsNamedVariable(t *testing.T) {
	t.Setenv("DOCSMITH_TEST_KEY", "sk-test")

	s := SynthesisConfig{APIKeyEnv: "DOCSMITH_TEST_KEY"}
	if got := s.APIKey(); got != "sk-test" {
		t.Errorf("APIKey() = %q, want sk-test", got)
	}
	if got := (SynthesisConfig{}).APIKey(); got != "" {
		t.Errorf("APIKey() with no variable = %q, want empty", got)
	}
}
