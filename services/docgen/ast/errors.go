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
	"errors"
	"fmt"
)

// Sentinel errors for extraction failures that are not syntax errors.
//
// Syntax errors never surface as Go errors; they are folded into
// StructuralModel.ErrorMessage. These sentinels cover operational failures.
var (
	// ErrUnsupportedLanguage indicates that no extractor is registered for the
	// requested language or file extension.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrParseCanceled indicates that extraction was canceled via context.
	ErrParseCanceled = errors.New("parse canceled")

	// ErrInvalidSource indicates content the parser cannot read at all,
	// such as invalid UTF-8.
	ErrInvalidSource = errors.New("invalid source")
)

// ParseError locates a syntax error in source text.
//
// Its Error form is the message stored on an invalid StructuralModel:
//
//	Syntax error at line 3: invalid syntax
type ParseError struct {
	// Language of the extractor that produced the error.
	Language string

	// Line is 1-indexed. Always set for syntax errors.
	Line int

	// Column is 1-indexed, 0 if unknown.
	Column int

	// Message is the short diagnostic.
	Message string

	// Cause is the underlying parser error, if any.
	Cause error
}

// Error returns "Syntax error at line N: message".
func (e *ParseError) Error() string {
	return fmt.Sprintf("Syntax error at line %d: %s", e.Line, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a ParseError without a cause.
func NewParseError(language string, line, column int, message string) *ParseError {
	return &ParseError{
		Language: language,
		Line:     line,
		Column:   column,
		Message:  message,
	}
}

// NewParseErrorWithCause creates a ParseError wrapping cause.
func NewParseErrorWithCause(language string, line, column int, message string, cause error) *ParseError {
	return &ParseError{
		Language: language,
		Line:     line,
		Column:   column,
		Message:  message,
		Cause:    cause,
	}
}

// IsParseError reports whether err is or wraps a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
