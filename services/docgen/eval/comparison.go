// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package eval

import (
	"regexp"
	"sort"
	"strings"
)

// NotDocumented fills a comparison cell for a function missing on one side.
const NotDocumented = "(Not documented)"

// ComparisonRow pairs one function's generated and reference sections.
type ComparisonRow struct {
	Function  string `json:"function"`
	Generated string `json:"generated"`
	Reference string `json:"reference"`

	// Both is true when the function appears in both documents.
	Both bool `json:"both"`
}

// CompareFunctions splits both documents into per-function sections and
// returns one row per function name, sorted by name.
func CompareFunctions(generated, reference string) []ComparisonRow {
	gen := SplitByFunction(generated)
	ref := SplitByFunction(reference)

	names := make([]string, 0, len(gen)+len(ref))
	for name := range gen {
		names = append(names, name)
	}
	for name := range ref {
		if _, ok := gen[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	rows := make([]ComparisonRow, 0, len(names))
	for _, name := range names {
		g, inGen := gen[name]
		r, inRef := ref[name]
		if !inGen {
			g = NotDocumented
		}
		if !inRef {
			r = NotDocumented
		}
		rows = append(rows, ComparisonRow{Function: name, Generated: g, Reference: r, Both: inGen && inRef})
	}
	return rows
}

var defLineRe = regexp.MustCompile(`^def\s+(\w+)`)

// SplitByFunction maps function names to their section text. A section
// starts at a heading line containing "##" and "Function:" (the heading is
// not part of the section) or at a line starting with "def name" (which is).
func SplitByFunction(doc string) map[string]string {
	sections := make(map[string]string)
	current := ""
	var content []string

	flush := func() {
		if current != "" {
			sections[current] = strings.Join(content, "\n")
		}
	}

	for _, line := range strings.Split(doc, "\n") {
		switch {
		case strings.Contains(line, "##") && strings.Contains(line, "Function:"):
			flush()
			current = strings.TrimSpace(line[strings.LastIndex(line, "Function:")+len("Function:"):])
			content = nil
		case strings.HasPrefix(line, "def "):
			if m := defLineRe.FindStringSubmatch(line); m != nil {
				flush()
				current = m[1]
				content = []string{line}
			}
		default:
			if current != "" {
				content = append(content, line)
			}
		}
	}
	flush()
	return sections
}
