// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package format renders documentation payloads as docstrings and joins
// them into a single Markdown-compatible document.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AleutianAI/docsmith/services/docgen/ast"
	"github.com/AleutianAI/docsmith/services/docgen/synth"
)

// Style is a docstring layout.
type Style string

const (
	StyleGoogle Style = "google"
	StyleNumPy  Style = "numpy"
)

// ErrUnknownStyle is returned by ParseStyle for unrecognized names.
var ErrUnknownStyle = errors.New("unknown docstring style")

// ParseStyle parses a style name case-insensitively. An empty name selects
// StyleGoogle.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(StyleGoogle):
		return StyleGoogle, nil
	case string(StyleNumPy):
		return StyleNumPy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
}

const docstringMarker = `"""`

// Render formats payload for fn in style. Unknown styles render as Google.
//
// Both layouts carry the same content: the brief line (opening the
// docstring), the elaboration paragraph, parameters (omitted when fn has no
// non-receiver parameters), returns (when fn has an annotation or payload a
// return description) and examples (when any exist).
func Render(fn ast.FunctionRecord, payload synth.DocumentationPayload, style Style) string {
	var lines []string

	descLines := strings.Split(payload.Description, "\n")
	lines = append(lines, docstringMarker+descLines[0], "")

	if len(descLines) > 1 {
		for _, part := range descLines[1:] {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		lines = append(lines, "")
	}

	params := fn.ExplicitParameters()
	hasReturns := fn.ReturnAnnotation != "" || payload.ReturnDescription != ""

	if style == StyleNumPy {
		lines = appendNumPySections(lines, fn, payload, params, hasReturns)
	} else {
		lines = appendGoogleSections(lines, payload, params, hasReturns)
	}

	lines = append(lines, docstringMarker)
	return strings.Join(lines, "\n")
}

func appendGoogleSections(lines []string, payload synth.DocumentationPayload, params []string, hasReturns bool) []string {
	if len(params) > 0 {
		lines = append(lines, "Args:")
		for _, p := range params {
			lines = append(lines, fmt.Sprintf("    %s: %s", p, parameterDescription(payload, p)))
		}
		lines = append(lines, "")
	}
	if hasReturns {
		lines = append(lines, "Returns:", "    "+payload.ReturnDescription, "")
	}
	if len(payload.Examples) > 0 {
		lines = append(lines, "Examples:")
		for _, ex := range payload.Examples {
			lines = append(lines, "    "+ex)
		}
		lines = append(lines, "")
	}
	return lines
}

func appendNumPySections(lines []string, fn ast.FunctionRecord, payload synth.DocumentationPayload, params []string, hasReturns bool) []string {
	if len(params) > 0 {
		lines = append(lines, "Parameters", "----------")
		for _, p := range params {
			lines = append(lines, p+" : type", "    "+parameterDescription(payload, p))
		}
		lines = append(lines, "")
	}
	if hasReturns {
		returnType := fn.ReturnAnnotation
		if returnType == "" {
			returnType = "type"
		}
		lines = append(lines, "Returns", "-------", returnType, "    "+payload.ReturnDescription, "")
	}
	if len(payload.Examples) > 0 {
		lines = append(lines, "Examples", "--------")
		lines = append(lines, payload.Examples...)
		lines = append(lines, "")
	}
	return lines
}

func parameterDescription(payload synth.DocumentationPayload, param string) string {
	if desc, ok := payload.ParameterDescriptions[param]; ok {
		return desc
	}
	return fmt.Sprintf("The %s parameter", param)
}

// RenderedFunction is one rendered block, in document order.
type RenderedFunction struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// DocumentTitle heads every combined document.
const DocumentTitle = "# Generated Documentation"

var (
	titleRule   = strings.Repeat("=", 60)
	sectionRule = strings.Repeat("-", 60)
)

// Combine joins rendered blocks into one document: a title, then for each
// block a "## Function: name" heading, the text and a separator rule.
func Combine(blocks []RenderedFunction) string {
	out := []string{DocumentTitle + "\n", titleRule, ""}
	for _, b := range blocks {
		out = append(out, "## Function: "+b.Name, "", b.Text, "", sectionRule, "")
	}
	return strings.Join(out, "\n")
}
