// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/docsmith/services/docgen/ast"
	"github.com/AleutianAI/docsmith/services/docgen/synth"
)

// ModuleDocs renders a module-level docstring listing the model's
// functions and classes with the first line of their docstrings.
func ModuleDocs(model *ast.StructuralModel, moduleName string) string {
	if moduleName == "" {
		moduleName = "Module"
	}
	lines := []string{docstringMarker, moduleName, ""}
	if summary := firstLine(model.ModuleDocstring); summary != "" {
		lines = append(lines, summary, "")
	}
	lines = append(lines, "This module provides the following functionality:", "")

	if len(model.Functions) > 0 {
		lines = append(lines, "Functions:")
		for _, fn := range model.Functions {
			lines = append(lines, fmt.Sprintf("    %s: %s", fn.Name, firstLineOr(fn.Docstring, "Function")))
		}
		lines = append(lines, "")
	}

	if len(model.Classes) > 0 {
		lines = append(lines, "Classes:")
		for _, cls := range model.Classes {
			lines = append(lines, fmt.Sprintf("    %s: %s (%s)",
				cls.Name, firstLineOr(cls.Docstring, "Class"), plural(len(cls.Methods), "method")))
		}
		lines = append(lines, "")
	}

	lines = append(lines, docstringMarker)
	return strings.Join(lines, "\n")
}

// InlineComments returns source with each payload's comment suggestions
// inserted at the top of the matching function's body.
//
// payloads[i] belongs to fns[i]; extra entries on either side are ignored.
// A function whose body starts on its
// header line (a Go one-liner, a Python "def f(): pass") gets no comments.
func InlineComments(source, language string, fns []ast.FunctionRecord, payloads []synth.DocumentationPayload) string {
	marker := "#"
	opener := ":"
	if language == ast.LanguageGo {
		marker = "//"
		opener = "{"
	}

	lines := strings.Split(source, "\n")
	inserts := make(map[int][]string)
	for i, fn := range fns {
		if i >= len(payloads) || len(payloads[i].CommentSuggestions) == 0 {
			continue
		}
		payload := payloads[i]
		header := headerEnd(lines, fn.StartLine, fn.EndLine, opener)
		if header < 0 || header+1 >= len(lines) || header+1 >= fn.EndLine {
			continue
		}
		indent := leadingWhitespace(firstNonBlank(lines, header+1, fn.EndLine))
		for _, c := range payload.CommentSuggestions {
			inserts[header] = append(inserts[header], indent+marker+" "+c)
		}
	}

	if len(inserts) == 0 {
		return source
	}
	at := make([]int, 0, len(inserts))
	for idx := range inserts {
		at = append(at, idx)
	}
	sort.Ints(at)

	out := make([]string, 0, len(lines)+len(inserts)*3)
	next := 0
	for _, idx := range at {
		out = append(out, lines[next:idx+1]...)
		out = append(out, inserts[idx]...)
		next = idx + 1
	}
	out = append(out, lines[next:]...)
	return strings.Join(out, "\n")
}

// headerEnd returns the 0-based index of the line that closes the
// declaration header, searching lines start..end (1-based), or -1.
func headerEnd(lines []string, start, end int, opener string) int {
	for i := start - 1; i < end && i < len(lines); i++ {
		if i < 0 {
			continue
		}
		trimmed := strings.TrimRight(stripLineComment(lines[i]), " \t\r")
		if strings.HasSuffix(trimmed, opener) {
			return i
		}
	}
	return -1
}

func stripLineComment(line string) string {
	if i := strings.Index(line, " #"); i >= 0 {
		return line[:i]
	}
	if i := strings.Index(line, " //"); i >= 0 {
		return line[:i]
	}
	return line
}

// firstNonBlank returns the first non-blank line from index i up to the
// 1-based line end.
func firstNonBlank(lines []string, i, end int) string {
	for ; i < end && i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func firstLineOr(s, fallback string) string {
	if l := firstLine(s); l != "" {
		return l
	}
	return fallback
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
