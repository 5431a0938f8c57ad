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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractorRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	py, err := r.ByLanguage("Python")
	require.NoError(t, err)
	assert.Equal(t, LanguagePython, py.Language())

	byExt, err := r.ByExtension("py")
	require.NoError(t, err)
	assert.Same(t, py, byExt)

	goExt, err := r.ByExtension(".GO")
	require.NoError(t, err)
	assert.Equal(t, LanguageGo, goExt.Language())

	_, err = r.ByLanguage("cobol")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	_, err = r.ByExtension(".cbl")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	assert.Equal(t, []string{"go", "python"}, r.Languages())
}

func TestParseError(t *testing.T) {
	cause := errors.New("boom")
	err := NewParseErrorWithCause(LanguagePython, 7, 3, "invalid syntax", cause)

	assert.Equal(t, "Syntax error at line 7: invalid syntax", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsParseError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsParseError(cause))
}

func TestCountLines(t *testing.T) {
	source := "# header\n\nx = 1\n    # indented comment\ny = 2\n"
	stats := CountLines(source, "#")

	assert.Equal(t, LineStats{Total: 6, Blank: 2, Comment: 2, Code: 2}, stats)
	assert.Equal(t, 6, CountTotalLines(source))
	assert.Equal(t, 1, CountTotalLines(""))
}

func TestCleanDocstring(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"single line", "  Summary.  ", "Summary.  "},
		{"indented body", "Summary.\n\n    Detail one.\n      Nested.\n    ", "Summary.\n\nDetail one.\n  Nested."},
		{"leading newline", "\n    Summary.\n    ", "Summary."},
		{"tabs", "Summary.\n\tBody.", "Summary.\nBody."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanDocstring(tt.in))
		})
	}
}

func TestFunctionRecord_ExplicitParameters(t *testing.T) {
	fn := FunctionRecord{Parameters: []string{"self", "a", "b"}}
	assert.Equal(t, []string{"a", "b"}, fn.ExplicitParameters())

	goFn := FunctionRecord{Parameters: []string{"c", "x"}, Receiver: "c"}
	assert.Equal(t, []string{"x"}, goFn.ExplicitParameters())
	assert.True(t, goFn.IsReceiver("c"))
	assert.False(t, goFn.IsReceiver("x"))
}

func TestStructuralModel_ElementNames(t *testing.T) {
	m := &StructuralModel{
		Functions: []FunctionRecord{{Name: "f"}, {Name: "g"}},
		Classes:   []ClassRecord{{Name: "C", Methods: []FunctionRecord{{Name: "m"}}}},
	}
	assert.Equal(t, []string{"f", "g", "C"}, m.ElementNames())
	assert.Equal(t, 1, m.MethodCount())
}
