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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goFixture = `// Package pricing computes totals.
package pricing

// Cart holds line items.
type Cart struct {
	Items []float64
}

type (
	// Taxer applies tax.
	Taxer interface {
		Apply(v float64) float64
	}
	rate float64
)

// Total sums the cart.
func (c *Cart) Total(taxRate float64) (float64, error) {
	sum := 0.0
	for _, v := range c.Items {
		sum += v
	}
	return sum * (1 + taxRate), nil
}

func (Cart) Empty() bool { return true }

func (r rate) String() string { return "" }

// CalculateTotalPrice is a module function.
func CalculateTotalPrice(items []float64, taxRate float64, _ int) float64 {
	c := &Cart{Items: items}
	v, _ := c.Total(taxRate)
	return v
}
`

func TestGoExtractor_Parse(t *testing.T) {
	model, err := NewGoExtractor().Parse(context.Background(), goFixture)
	require.NoError(t, err)
	require.True(t, model.Valid)

	assert.Equal(t, LanguageGo, model.Language)
	assert.Equal(t, "Package pricing computes totals.", model.ModuleDocstring)

	require.Len(t, model.Functions, 1)
	fn := model.Functions[0]
	assert.Equal(t, "CalculateTotalPrice", fn.Name)
	assert.Equal(t, []string{"items", "taxRate", "_"}, fn.Parameters)
	assert.Equal(t, "float64", fn.ReturnAnnotation)
	assert.Equal(t, "CalculateTotalPrice is a module function.", fn.Docstring)
	assert.Empty(t, fn.Receiver)

	require.Len(t, model.Classes, 2)
	cart := model.Classes[0]
	assert.Equal(t, "Cart", cart.Name)
	assert.Equal(t, "Cart holds line items.", cart.Docstring)
	require.Len(t, cart.Methods, 2)

	total := cart.Methods[0]
	assert.Equal(t, "Total", total.Name)
	assert.Equal(t, "c", total.Receiver)
	assert.Equal(t, []string{"c", "taxRate"}, total.Parameters)
	assert.Equal(t, []string{"taxRate"}, total.ExplicitParameters())
	assert.Equal(t, "(float64, error)", total.ReturnAnnotation)
	assert.Equal(t, 18, total.StartLine)
	assert.Equal(t, 24, total.EndLine)

	empty := cart.Methods[1]
	assert.Empty(t, empty.Receiver)
	assert.Empty(t, empty.Parameters)

	taxer := model.Classes[1]
	assert.Equal(t, "Taxer", taxer.Name)
	assert.Equal(t, "Taxer applies tax.", taxer.Docstring)
}

func TestGoExtractor_SyntaxError(t *testing.T) {
	source := "package p\n\nfunc f( {\n}\n"
	model, err := NewGoExtractor().Parse(context.Background(), source)
	require.NoError(t, err)

	assert.False(t, model.Valid)
	assert.Empty(t, model.Functions)
	assert.Empty(t, model.Classes)
	assert.Contains(t, model.ErrorMessage, "Syntax error at line 3:")
	assert.Equal(t, 5, model.TotalLines)
}

func TestGoExtractor_Validate(t *testing.T) {
	ok, msg, err := NewGoExtractor().Validate(context.Background(), "package p\n")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, msg)
}
