// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

import (
	"strings"
)

// CountTotalLines counts newline-delimited lines. An empty string is one
// line, and a trailing newline opens a final empty line.
func CountTotalLines(source string) int {
	return strings.Count(source, "\n") + 1
}

// CountLines classifies each newline-delimited line as blank, comment
// (first non-space text starts with commentPrefix) or code.
func CountLines(source, commentPrefix string) LineStats {
	lines := strings.Split(source, "\n")
	stats := LineStats{Total: len(lines)}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			stats.Blank++
		case commentPrefix != "" && strings.HasPrefix(trimmed, commentPrefix):
			stats.Comment++
		}
	}
	stats.Code = stats.Total - stats.Blank - stats.Comment
	return stats
}

// sliceLines returns lines start..end (1-based, inclusive) of source joined
// by newlines. Out-of-range bounds are clamped.
func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

// CleanDocstring removes the uniform indentation of a docstring body.
//
// The first line is stripped of leading whitespace. All following lines lose
// the smallest indentation found among their non-blank members. Leading and
// trailing blank lines are then dropped. Tabs expand to 8-column stops first.
func CleanDocstring(doc string) string {
	if doc == "" {
		return ""
	}
	lines := strings.Split(expandTabs(doc), "\n")

	margin := -1
	for _, line := range lines[1:] {
		content := strings.TrimLeft(line, " ")
		if content == "" {
			continue
		}
		indent := len(line) - len(content)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " ")
			}
		}
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := 8 - col%8
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}
