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
	"errors"
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"log/slog"
	"strings"
	"time"
)

// LanguageGo is the registry name of the Go extractor.
const LanguageGo = "go"

// GoExtractorOption configures a GoExtractor.
type GoExtractorOption func(*GoExtractor)

// WithGoLogger sets the logger used for diagnostics.
func WithGoLogger(logger *slog.Logger) GoExtractorOption {
	return func(g *GoExtractor) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// GoExtractor extracts structure from a single Go source file.
//
// Top-level functions are module functions. Struct and interface type
// declarations are classes; a method is attached to the class named by its
// receiver's base type. Methods whose receiver type is not declared in the
// same file are dropped. The receiver name, when present, is the first
// parameter and is also stored in FunctionRecord.Receiver.
type GoExtractor struct {
	logger *slog.Logger
}

// NewGoExtractor creates a Go extractor.
func NewGoExtractor(opts ...GoExtractorOption) *GoExtractor {
	g := &GoExtractor{logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Language returns "go".
func (g *GoExtractor) Language() string {
	return LanguageGo
}

// Extensions returns the Go file extension.
func (g *GoExtractor) Extensions() []string {
	return []string{".go"}
}

// Validate reports whether source is a syntactically valid Go file.
func (g *GoExtractor) Validate(ctx context.Context, source string) (bool, string, error) {
	model, err := g.Parse(ctx, source)
	if err != nil {
		return false, "", err
	}
	return model.Valid, model.ErrorMessage, nil
}

// Parse returns the structural model of source.
func (g *GoExtractor) Parse(ctx context.Context, source string) (*StructuralModel, error) {
	ctx, span := startExtractSpan(ctx, LanguageGo, len(source))
	defer span.End()
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseCanceled, err)
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "source.go", source, parser.ParseComments)
	if err != nil {
		perr := goParseError(err)
		g.logger.Debug("go source has syntax errors",
			slog.Int("line", perr.Line),
			slog.String("diagnostic", perr.Message))
		model := newInvalidModel(LanguageGo, source, "//", perr.Error())
		setExtractSpanResult(span, model)
		recordExtractMetrics(ctx, LanguageGo, time.Since(start), model)
		return model, nil
	}

	lines := strings.Split(source, "\n")
	model := &StructuralModel{
		Language:   LanguageGo,
		Functions:  []FunctionRecord{},
		Classes:    []ClassRecord{},
		TotalLines: len(lines),
		Lines:      CountLines(source, "//"),
		Valid:      true,
	}
	if file.Doc != nil {
		model.ModuleDocstring = strings.TrimSpace(file.Doc.Text())
	}

	classIndex := make(map[string]int)
	for _, decl := range file.Decls {
		gen, ok := decl.(*goast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*goast.TypeSpec)
			if !ok {
				continue
			}
			switch ts.Type.(type) {
			case *goast.StructType, *goast.InterfaceType:
			default:
				continue
			}
			cls := ClassRecord{Name: ts.Name.Name, Methods: []FunctionRecord{}}
			doc := ts.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}
			if doc != nil {
				cls.Docstring = strings.TrimSpace(doc.Text())
			}
			var node goast.Node = ts
			if len(gen.Specs) == 1 {
				node = gen
			}
			cls.StartLine = fset.Position(node.Pos()).Line
			cls.EndLine = fset.Position(node.End()).Line
			classIndex[cls.Name] = len(model.Classes)
			model.Classes = append(model.Classes, cls)
		}
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*goast.FuncDecl)
		if !ok {
			continue
		}
		rec := goFunctionRecord(fset, fn, source, lines)
		if fn.Recv == nil {
			model.Functions = append(model.Functions, rec)
			continue
		}
		if idx, ok := classIndex[receiverTypeName(fn.Recv)]; ok {
			model.Classes[idx].Methods = append(model.Classes[idx].Methods, rec)
		}
	}

	setExtractSpanResult(span, model)
	recordExtractMetrics(ctx, LanguageGo, time.Since(start), model)
	return model, nil
}

func goFunctionRecord(fset *token.FileSet, fn *goast.FuncDecl, source string, lines []string) FunctionRecord {
	rec := FunctionRecord{
		Name:       fn.Name.Name,
		Language:   LanguageGo,
		Parameters: []string{},
	}
	if fn.Recv != nil && len(fn.Recv.List) > 0 && len(fn.Recv.List[0].Names) > 0 {
		rec.Receiver = fn.Recv.List[0].Names[0].Name
		rec.Parameters = append(rec.Parameters, rec.Receiver)
	}
	if fn.Type.Params != nil {
		for _, field := range fn.Type.Params.List {
			for _, name := range field.Names {
				rec.Parameters = append(rec.Parameters, name.Name)
			}
		}
	}
	if fn.Type.Results != nil && len(fn.Type.Results.List) > 0 {
		start := fset.Position(fn.Type.Results.Pos()).Offset
		end := fset.Position(fn.Type.Results.End()).Offset
		if start >= 0 && end <= len(source) && start < end {
			rec.ReturnAnnotation = source[start:end]
		}
	}
	if fn.Doc != nil {
		rec.Docstring = strings.TrimSpace(fn.Doc.Text())
	}
	rec.StartLine = fset.Position(fn.Pos()).Line
	rec.EndLine = fset.Position(fn.End()).Line
	rec.BodyText = sliceLines(lines, rec.StartLine, rec.EndLine)
	return rec
}

// receiverTypeName returns the base type name of a receiver, looking
// through pointers and type parameters.
func receiverTypeName(recv *goast.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}
	expr := recv.List[0].Type
	for {
		switch t := expr.(type) {
		case *goast.StarExpr:
			expr = t.X
		case *goast.IndexExpr:
			expr = t.X
		case *goast.IndexListExpr:
			expr = t.X
		case *goast.ParenExpr:
			expr = t.X
		case *goast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

func goParseError(err error) *ParseError {
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		first := list[0]
		return NewParseErrorWithCause(LanguageGo, first.Pos.Line, first.Pos.Column, first.Msg, err)
	}
	return NewParseErrorWithCause(LanguageGo, 1, 0, err.Error(), err)
}

var _ Extractor = (*GoExtractor)(nil)
