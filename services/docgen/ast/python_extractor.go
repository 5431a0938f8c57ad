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
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// LanguagePython is the registry name of the Python extractor.
const LanguagePython = "python"

// PythonExtractorOption configures a PythonExtractor.
type PythonExtractorOption func(*PythonExtractor)

// WithPythonLogger sets the logger used for diagnostics.
func WithPythonLogger(logger *slog.Logger) PythonExtractorOption {
	return func(p *PythonExtractor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// PythonExtractor extracts structure from Python source using tree-sitter.
//
// Module-level functions are the direct definitions of the module
// (plain, async and decorated). Classes are found at any depth in
// breadth-first order; a class's methods are the function definitions
// directly inside its body. Nested functions are not extracted.
//
// # Thread Safety
//
// Safe for concurrent use. A new tree-sitter parser is created per call.
type PythonExtractor struct {
	logger *slog.Logger
}

// NewPythonExtractor creates a Python extractor.
func NewPythonExtractor(opts ...PythonExtractorOption) *PythonExtractor {
	p := &PythonExtractor{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Language returns "python".
func (p *PythonExtractor) Language() string {
	return LanguagePython
}

// Extensions returns the Python file extensions.
func (p *PythonExtractor) Extensions() []string {
	return []string{".py", ".pyi"}
}

// Validate reports whether source is syntactically valid Python.
func (p *PythonExtractor) Validate(ctx context.Context, source string) (bool, string, error) {
	model, err := p.Parse(ctx, source)
	if err != nil {
		return false, "", err
	}
	return model.Valid, model.ErrorMessage, nil
}

// Parse returns the structural model of source.
//
// Syntax errors yield a model with Valid == false and an ErrorMessage of the
// form "Syntax error at line N: ...". The returned error is non-nil only when
// ctx is canceled.
func (p *PythonExtractor) Parse(ctx context.Context, source string) (*StructuralModel, error) {
	ctx, span := startExtractSpan(ctx, LanguagePython, len(source))
	defer span.End()
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseCanceled, err)
	}

	model, err := p.parse(ctx, source)
	if err != nil {
		return nil, err
	}

	setExtractSpanResult(span, model)
	recordExtractMetrics(ctx, LanguagePython, time.Since(start), model)
	return model, nil
}

func (p *PythonExtractor) parse(ctx context.Context, source string) (*StructuralModel, error) {
	if !utf8.ValidString(source) {
		perr := NewParseErrorWithCause(LanguagePython, firstInvalidUTF8Line(source), 0, "invalid UTF-8 sequence", ErrInvalidSource)
		return newInvalidModel(LanguagePython, source, "#", perr.Error()), nil
	}

	content := []byte(source)
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseCanceled, ctxErr)
		}
		perr := NewParseErrorWithCause(LanguagePython, 1, 0, "parser failure", err)
		return newInvalidModel(LanguagePython, source, "#", perr.Error()), nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		perr := NewParseError(LanguagePython, 1, 0, "empty syntax tree")
		return newInvalidModel(LanguagePython, source, "#", perr.Error()), nil
	}

	if root.HasError() {
		perr := firstSyntaxError(root)
		p.logger.Debug("python source has syntax errors",
			slog.Int("line", perr.Line),
			slog.String("diagnostic", perr.Message))
		return newInvalidModel(LanguagePython, source, "#", perr.Error()), nil
	}

	if perr := firstLegacyStatement(root); perr != nil {
		p.logger.Debug("python source uses python 2 statements",
			slog.Int("line", perr.Line),
			slog.String("diagnostic", perr.Message))
		return newInvalidModel(LanguagePython, source, "#", perr.Error()), nil
	}

	lines := strings.Split(source, "\n")
	model := &StructuralModel{
		Language:        LanguagePython,
		Functions:       []FunctionRecord{},
		Classes:         []ClassRecord{},
		ModuleDocstring: pythonDocstring(root, content),
		TotalLines:      len(lines),
		Lines:           CountLines(source, "#"),
		Valid:           true,
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		if fn := asFunctionDefinition(root.NamedChild(i)); fn != nil {
			model.Functions = append(model.Functions, pythonFunctionRecord(fn, content, lines))
		}
	}

	for _, cls := range collectClasses(root) {
		model.Classes = append(model.Classes, pythonClassRecord(cls, content, lines))
	}

	return model, nil
}

// asFunctionDefinition unwraps node to a function_definition, looking
// through a decorated_definition. Returns nil for anything else.
func asFunctionDefinition(node *sitter.Node) *sitter.Node {
	switch node.Type() {
	case "function_definition":
		return node
	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil && def.Type() == "function_definition" {
			return def
		}
	}
	return nil
}

// collectClasses walks the tree breadth-first and returns every
// class_definition in visit order.
func collectClasses(root *sitter.Node) []*sitter.Node {
	var classes []*sitter.Node
	queue := []*sitter.Node{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node.Type() == "class_definition" {
			classes = append(classes, node)
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			queue = append(queue, node.NamedChild(i))
		}
	}
	return classes
}

func pythonFunctionRecord(node *sitter.Node, content []byte, lines []string) FunctionRecord {
	rec := FunctionRecord{Language: LanguagePython, Parameters: []string{}}
	if n := node.ChildByFieldName("name"); n != nil {
		rec.Name = n.Content(content)
	}
	if n := node.ChildByFieldName("parameters"); n != nil {
		rec.Parameters = pythonParameterNames(n, content)
	}
	if n := node.ChildByFieldName("return_type"); n != nil {
		rec.ReturnAnnotation = n.Content(content)
	}
	if n := node.ChildByFieldName("body"); n != nil {
		rec.Docstring = pythonDocstring(n, content)
	}
	rec.StartLine, rec.EndLine = nodeLines(node)
	rec.BodyText = sliceLines(lines, rec.StartLine, rec.EndLine)
	return rec
}

func pythonClassRecord(node *sitter.Node, content []byte, lines []string) ClassRecord {
	rec := ClassRecord{Methods: []FunctionRecord{}}
	if n := node.ChildByFieldName("name"); n != nil {
		rec.Name = n.Content(content)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		rec.Docstring = pythonDocstring(body, content)
		for i := 0; i < int(body.NamedChildCount()); i++ {
			if fn := asFunctionDefinition(body.NamedChild(i)); fn != nil {
				rec.Methods = append(rec.Methods, pythonFunctionRecord(fn, content, lines))
			}
		}
	}
	rec.StartLine, rec.EndLine = nodeLines(node)
	return rec
}

// pythonParameterNames lists plain, typed and defaulted parameter names.
// Splats (*args, **kwargs) and the bare * and / separators are skipped.
func pythonParameterNames(params *sitter.Node, content []byte) []string {
	names := []string{}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "identifier":
			names = append(names, child.Content(content))
		case "default_parameter", "typed_default_parameter":
			if n := child.ChildByFieldName("name"); n != nil && n.Type() == "identifier" {
				names = append(names, n.Content(content))
			}
		case "typed_parameter":
			if child.NamedChildCount() > 0 {
				if n := child.NamedChild(0); n.Type() == "identifier" {
					names = append(names, n.Content(content))
				}
			}
		}
	}
	return names
}

// pythonDocstring returns the cleaned docstring of a module or block: the
// first statement when it is a plain string expression.
func pythonDocstring(container *sitter.Node, content []byte) string {
	for i := 0; i < int(container.NamedChildCount()); i++ {
		stmt := container.NamedChild(i)
		if stmt.Type() == "comment" {
			continue
		}
		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
			return ""
		}
		expr := stmt.NamedChild(0)
		switch expr.Type() {
		case "string":
			if text, ok := stringLiteralValue(expr.Content(content)); ok {
				return CleanDocstring(text)
			}
		case "concatenated_string":
			var b strings.Builder
			for j := 0; j < int(expr.NamedChildCount()); j++ {
				part := expr.NamedChild(j)
				if part.Type() != "string" {
					continue
				}
				text, ok := stringLiteralValue(part.Content(content))
				if !ok {
					return ""
				}
				b.WriteString(text)
			}
			return CleanDocstring(b.String())
		}
		return ""
	}
	return ""
}

// stringLiteralValue decodes a Python string literal. Byte strings and
// f-strings are rejected since neither can be a docstring.
func stringLiteralValue(raw string) (string, bool) {
	prefixEnd := strings.IndexAny(raw, `"'`)
	if prefixEnd < 0 {
		return "", false
	}
	prefix := strings.ToLower(raw[:prefixEnd])
	if strings.ContainsAny(prefix, "bf") {
		return "", false
	}
	body := raw[prefixEnd:]

	quote := body[:1]
	if strings.HasPrefix(body, `"""`) || strings.HasPrefix(body, `'''`) {
		quote = body[:3]
	}
	if len(body) < 2*len(quote) {
		return "", false
	}
	body = body[len(quote) : len(body)-len(quote)]

	if strings.Contains(prefix, "r") {
		return body, true
	}
	return unescapePython(body), true
}

var pythonEscapes = map[byte]string{
	'n':  "\n",
	't':  "\t",
	'r':  "\r",
	'\\': "\\",
	'\'': "'",
	'"':  "\"",
	'\n': "",
	'0':  "\x00",
}

func unescapePython(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if rep, ok := pythonEscapes[s[i+1]]; ok {
				b.WriteString(rep)
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// nodeLines returns the 1-based inclusive line span of node. A node ending
// at column 0 ends on the previous line.
func nodeLines(node *sitter.Node) (int, int) {
	start := int(node.StartPoint().Row) + 1
	end := int(node.EndPoint().Row) + 1
	if node.EndPoint().Column == 0 && end > start {
		end--
	}
	return start, end
}

// firstSyntaxError finds the first ERROR or MISSING node in document order.
func firstSyntaxError(root *sitter.Node) *ParseError {
	var found *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found != nil {
			return
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child.HasError() || child.IsMissing() {
				walk(child)
			}
		}
	}
	walk(root)

	if found == nil {
		return NewParseError(LanguagePython, 1, 0, "invalid syntax")
	}
	line := int(found.StartPoint().Row) + 1
	col := int(found.StartPoint().Column) + 1
	if found.IsMissing() {
		return NewParseError(LanguagePython, line, col, fmt.Sprintf("expected '%s'", found.Type()))
	}
	return NewParseError(LanguagePython, line, col, "invalid syntax")
}

// firstLegacyStatement reports the first Python 2 print or exec
// statement. The grammar accepts both but Python 3 rejects them.
func firstLegacyStatement(root *sitter.Node) *ParseError {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var keyword string
		switch n.Type() {
		case "print_statement":
			keyword = "print"
		case "exec_statement":
			keyword = "exec"
		}
		if keyword != "" {
			line := int(n.StartPoint().Row) + 1
			col := int(n.StartPoint().Column) + 1
			return NewParseError(LanguagePython, line, col,
				fmt.Sprintf("Missing parentheses in call to '%s'", keyword))
		}

		// Push in reverse so the earliest statement is reported first.
		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.NamedChild(i))
		}
	}
	return nil
}

func firstInvalidUTF8Line(s string) int {
	line := 1
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return line
		}
		if r == '\n' {
			line++
		}
		i += size
	}
	return line
}

var _ Extractor = (*PythonExtractor)(nil)
