// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package synth

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/AleutianAI/docsmith/services/docgen/ast"
)

// DefaultExcerptSize bounds the source excerpt embedded in a prompt.
const DefaultExcerptSize = 1200

var sourceSeparators = []string{"\n\n", "\n", " ", ""}

// PromptBuilder renders delegated-mode prompts.
type PromptBuilder struct {
	// ExcerptSize is the maximum excerpt length in characters. Zero leaves
	// the source out of the prompt.
	ExcerptSize int
}

// NewPromptBuilder returns a builder with the default excerpt size.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{ExcerptSize: DefaultExcerptSize}
}

// Build renders the prompt for fn in the named output style.
func (b *PromptBuilder) Build(fn ast.FunctionRecord, style string) string {
	returnType := fn.ReturnAnnotation
	if returnType == "" {
		returnType = "Not specified"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate comprehensive documentation for this %s function:\n\n", languageTitle(fn.Language))
	fmt.Fprintf(&sb, "Function Name: %s\n", fn.Name)
	fmt.Fprintf(&sb, "Parameters: %s\n", strings.Join(fn.Parameters, ", "))
	fmt.Fprintf(&sb, "Return Type: %s\n", returnType)

	if excerpt := b.excerpt(fn.BodyText); excerpt != "" {
		sb.WriteString("\nSource:\n")
		sb.WriteString(excerpt)
		sb.WriteString("\n")
	}

	sb.WriteString("\nProvide:\n")
	sb.WriteString("1. Brief description (1-2 sentences)\n")
	sb.WriteString("2. Parameter descriptions\n")
	sb.WriteString("3. Return value description\n")
	sb.WriteString("4. Usage example\n\n")
	fmt.Fprintf(&sb, "Format as %s-style docstring.", styleTitle(style))
	return sb.String()
}

// excerpt returns the first splitter chunk of body.
func (b *PromptBuilder) excerpt(body string) string {
	if b.ExcerptSize <= 0 || strings.TrimSpace(body) == "" {
		return ""
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(b.ExcerptSize),
		textsplitter.WithChunkOverlap(0),
		textsplitter.WithSeparators(sourceSeparators),
	)
	chunks, err := splitter.SplitText(body)
	if err != nil || len(chunks) == 0 {
		return ""
	}
	return chunks[0]
}

func languageTitle(language string) string {
	switch strings.ToLower(language) {
	case "go":
		return "Go"
	case "", "python":
		return "Python"
	default:
		return capitalize(language)
	}
}

func styleTitle(style string) string {
	if strings.EqualFold(style, "numpy") {
		return "NumPy"
	}
	return "Google"
}
