// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ast extracts a language-agnostic structural model (functions,
// classes, docstrings, line spans) from source text.
package ast

// SelfParameter is the conventional Python receiver name. Downstream stages
// exclude it, together with FunctionRecord.Receiver, by exact name match.
const SelfParameter = "self"

// FunctionRecord describes one function or method declaration.
//
// Parameters are kept in declaration order and include the receiver, if any.
// Optional text fields (ReturnAnnotation, Docstring) are empty when absent.
type FunctionRecord struct {
	// Name is the declared identifier.
	Name string `json:"name"`

	// Language of the source the record came from.
	Language string `json:"language"`

	// Parameters lists parameter names in source order.
	Parameters []string `json:"parameters"`

	// Receiver names the receiver parameter for languages that declare one
	// explicitly outside the parameter list (Go). Empty for Python.
	Receiver string `json:"receiver,omitempty"`

	// ReturnAnnotation is the literal text of the declared return type.
	ReturnAnnotation string `json:"return_annotation,omitempty"`

	// Docstring is the cleaned documentation attached to the declaration.
	Docstring string `json:"docstring,omitempty"`

	// StartLine and EndLine are 1-based and inclusive.
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`

	// BodyText is the verbatim source span from StartLine through EndLine.
	BodyText string `json:"body"`
}

// IsReceiver reports whether name is a receiver parameter of f.
func (f FunctionRecord) IsReceiver(name string) bool {
	return name == SelfParameter || (f.Receiver != "" && name == f.Receiver)
}

// ExplicitParameters returns the parameters with receivers removed.
func (f FunctionRecord) ExplicitParameters() []string {
	out := make([]string, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		if !f.IsReceiver(p) {
			out = append(out, p)
		}
	}
	return out
}

// ClassRecord describes a class (Python) or named struct/interface type (Go).
type ClassRecord struct {
	Name      string           `json:"name"`
	Methods   []FunctionRecord `json:"methods"`
	Docstring string           `json:"docstring,omitempty"`
	StartLine int              `json:"start_line"`
	EndLine   int              `json:"end_line"`
}

// LineStats breaks the raw input down by line kind.
type LineStats struct {
	Total   int `json:"total"`
	Blank   int `json:"blank"`
	Comment int `json:"comment"`
	Code    int `json:"code"`
}

// StructuralModel is the result of parsing one source text.
//
// # Invariants
//
//   - Valid == false implies Functions and Classes are empty and
//     ErrorMessage is non-empty.
//   - Valid == true implies ErrorMessage is empty.
//   - TotalLines and Lines are populated regardless of Valid.
//
// A model is never mutated after Parse returns it.
type StructuralModel struct {
	Language        string           `json:"language"`
	Functions       []FunctionRecord `json:"functions"`
	Classes         []ClassRecord    `json:"classes"`
	ModuleDocstring string           `json:"module_docstring,omitempty"`
	TotalLines      int              `json:"total_lines"`
	Lines           LineStats        `json:"line_stats"`
	Valid           bool             `json:"valid"`
	ErrorMessage    string           `json:"error,omitempty"`
}

// ElementNames returns the names of all module functions followed by all
// class names, in model order.
func (m *StructuralModel) ElementNames() []string {
	names := make([]string, 0, len(m.Functions)+len(m.Classes))
	for _, fn := range m.Functions {
		names = append(names, fn.Name)
	}
	for _, cls := range m.Classes {
		names = append(names, cls.Name)
	}
	return names
}

// MethodCount returns the number of methods across all classes.
func (m *StructuralModel) MethodCount() int {
	n := 0
	for _, cls := range m.Classes {
		n += len(cls.Methods)
	}
	return n
}

// Clone returns a deep copy of m.
func (m *StructuralModel) Clone() *StructuralModel {
	if m == nil {
		return nil
	}
	out := *m
	out.Functions = cloneFunctions(m.Functions)
	out.Classes = make([]ClassRecord, len(m.Classes))
	for i, cls := range m.Classes {
		cls.Methods = cloneFunctions(cls.Methods)
		out.Classes[i] = cls
	}
	return &out
}

func cloneFunctions(fns []FunctionRecord) []FunctionRecord {
	out := make([]FunctionRecord, len(fns))
	for i, fn := range fns {
		fn.Parameters = append([]string{}, fn.Parameters...)
		out[i] = fn
	}
	return out
}

// newInvalidModel builds the model returned for unparseable source.
func newInvalidModel(language, source, commentPrefix, message string) *StructuralModel {
	return &StructuralModel{
		Language:     language,
		Functions:    []FunctionRecord{},
		Classes:      []ClassRecord{},
		TotalLines:   CountTotalLines(source),
		Lines:        CountLines(source, commentPrefix),
		Valid:        false,
		ErrorMessage: message,
	}
}
