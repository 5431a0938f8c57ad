// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docgen

import "errors"

var (
	// ErrInvalidStyle is returned for an unknown docstring style name.
	ErrInvalidStyle = errors.New("invalid docstring style")

	// ErrInvalidLanguage is returned when no extractor handles the
	// requested language.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidMode is returned for an unknown synthesis mode.
	ErrInvalidMode = errors.New("invalid synthesis mode")

	// ErrSyntax is returned by Generate when the source does not parse.
	ErrSyntax = errors.New("source has syntax errors")
)
