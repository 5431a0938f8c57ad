// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Allows: letters, digits, underscores, dots (pkg.module), hyphens (my-lib)
// Must start with a letter or underscore. Max length: 64 characters.
var moduleNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]{0,63}$`)

// ValidateModuleName validates a module name before it is embedded in a
// generated docstring or used as an output file name.
//
// Valid names:
//   - 1-64 characters
//   - Letters, digits and underscores
//   - Dots (.) for dotted module paths like pkg.inventory
//   - Hyphens (-) for file-style names like my-lib
//
// Example:
//
//	if err := validation.ValidateModuleName(name); err != nil {
//	    return fmt.Errorf("invalid module name: %w", err)
//	}
func ValidateModuleName(name string) error {
	if name == "" {
		return fmt.Errorf("module name cannot be empty")
	}

	if !moduleNamePattern.MatchString(name) {
		return fmt.Errorf("invalid module name: %q (must be 1-64 letters, digits, underscores, dots, or hyphens, starting with a letter or underscore)", name)
	}

	return nil
}

// SanitizeModuleName derives a valid module name from a file stem.
// Disallowed characters become underscores, a leading digit or dot gets an
// underscore prefix, and the result is cut to 64 characters. An empty stem
// yields "module".
//
//	validation.SanitizeModuleName("2024 report") // "_2024_report"
func SanitizeModuleName(stem string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(stem) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	name := b.String()
	if name == "" {
		return "module"
	}
	if c := name[0]; (c >= '0' && c <= '9') || c == '.' || c == '-' {
		name = "_" + name
	}
	if len(name) > 64 {
		name = name[:64]
	}
	return name
}
