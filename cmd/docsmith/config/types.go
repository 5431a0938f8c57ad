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
	"time"
)

// CurrentConfigVersion is written into new config files.
const CurrentConfigVersion = "1"

// DocsmithConfig is the on-disk configuration of the docsmith CLI.
type DocsmithConfig struct {
	Meta MetaConfig `yaml:"meta"`

	// Style is the default docstring layout: google or numpy.
	Style string `yaml:"style" validate:"oneof=google numpy"`

	// Language is used when a file extension is not recognized.
	Language string `yaml:"language" validate:"oneof=python go"`

	// IncludeMethods documents class methods alongside module functions.
	IncludeMethods bool `yaml:"include_methods"`

	Synthesis SynthesisConfig `yaml:"synthesis"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type MetaConfig struct {
	Version string `yaml:"version"`
}

// SynthesisConfig selects the synthesis mode and the completion backend
// used in delegated mode.
type SynthesisConfig struct {
	Mode        string        `yaml:"mode" validate:"oneof=local delegated"`
	Backend     string        `yaml:"backend" validate:"oneof=none openai ollama"`
	Model       string        `yaml:"model" validate:"required"`
	Temperature float32       `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `yaml:"max_tokens" validate:"gte=1,lte=32768"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`

	// RequestsPerSecond throttles the backend. Zero disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`

	// APIKeyEnv names the environment variable holding the API key. The
	// key itself never lives in the file.
	APIKeyEnv string `yaml:"api_key_env"`

	BaseURL string `yaml:"base_url,omitempty" validate:"omitempty,url"`

	// Concurrency bounds parallel synthesis per file and parallel files
	// per generate run.
	Concurrency int `yaml:"concurrency" validate:"gte=1,lte=64"`
}

// APIKey reads the key from the variable named by APIKeyEnv.
func (s SynthesisConfig) APIKey() string {
	if s.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(s.APIKeyEnv)
}

type ServerConfig struct {
	Port  int  `yaml:"port" validate:"gte=1,lte=65535"`
	Debug bool `yaml:"debug"`
}

type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" validate:"oneof=none otlp stdout"`
	MetricExporter string `yaml:"metric_exporter" validate:"oneof=none prometheus stdout"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`

	// Dir enables the JSON log file. Supports ~.
	Dir  string `yaml:"dir,omitempty"`
	JSON bool   `yaml:"json"`
}

// DefaultConfig returns local synthesis in Google style with Prometheus
// metrics and no trace export.
func DefaultConfig() DocsmithConfig {
	return DocsmithConfig{
		Meta:     MetaConfig{Version: CurrentConfigVersion},
		Style:    "google",
		Language: "python",
		Synthesis: SynthesisConfig{
			Mode:              "local",
			Backend:           "none",
			Model:             "gpt-3.5-turbo",
			Temperature:       0.7,
			MaxTokens:         500,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
			APIKeyEnv:         "OPENAI_API_KEY",
			Concurrency:       4,
		},
		Server: ServerConfig{
			Port: 8090,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			OTLPEndpoint:   "localhost:4317",
			OTLPInsecure:   true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
