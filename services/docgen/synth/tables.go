// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package synth

import (
	"fmt"
	"strings"
)

// The tables below are ordered. Lookups walk them front to back and the
// first matching entry wins.

// verbRule maps a leading name token to the action phrase of a description.
type verbRule struct {
	token  string
	phrase string
}

var verbTable = []verbRule{
	{"get", "Retrieves"},
	{"set", "Sets or updates"},
	{"calculate", "Calculates"},
	{"compute", "Computes"},
	{"process", "Processes"},
	{"validate", "Validates"},
	{"check", "Checks"},
	{"find", "Finds"},
	{"search", "Searches for"},
	{"create", "Creates"},
	{"generate", "Generates"},
	{"build", "Builds"},
	{"parse", "Parses"},
	{"format", "Formats"},
	{"convert", "Converts"},
	{"transform", "Transforms"},
	{"sort", "Sorts"},
	{"filter", "Filters"},
	{"load", "Loads"},
	{"save", "Saves"},
	{"delete", "Deletes"},
	{"update", "Updates"},
	{"add", "Adds"},
	{"remove", "Removes"},
}

// actionPhrase returns the verb phrase for token, defaulting to the
// capitalized token plus "s".
func actionPhrase(token string) string {
	for _, rule := range verbTable {
		if rule.token == token {
			return rule.phrase
		}
	}
	return capitalize(token) + "s"
}

// paramBucket classifies a parameter by its lower-cased name.
type paramBucket struct {
	kind     string
	matches  func(lower string) bool
	describe func(param string) string
}

func oneOf(values ...string) func(string) bool {
	return func(s string) bool {
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

var parameterBuckets = []paramBucket{
	{
		kind:     "input",
		matches:  oneOf("data", "input", "value"),
		describe: func(p string) string { return fmt.Sprintf("The input %s to be processed", p) },
	},
	{
		kind:     "resource",
		matches:  oneOf("name", "filename", "file"),
		describe: func(p string) string { return fmt.Sprintf("The %s of the file or resource", p) },
	},
	{
		kind:     "path",
		matches:  oneOf("path", "filepath"),
		describe: func(p string) string { return fmt.Sprintf("The %s to the file or directory", p) },
	},
	{
		kind:     "identifier",
		matches:  oneOf("key", "id", "identifier"),
		describe: func(p string) string { return fmt.Sprintf("Unique %s for identification", p) },
	},
	{
		kind:     "config",
		matches:  oneOf("options", "config", "settings"),
		describe: func(p string) string { return fmt.Sprintf("Configuration %s for the operation", p) },
	},
	{
		kind:     "collection",
		matches:  oneOf("items", "list", "array"),
		describe: func(p string) string { return fmt.Sprintf("Collection of %s to process", p) },
	},
	{
		kind:     "quantity",
		matches:  containsAny("count", "num", "size"),
		describe: func(p string) string { return fmt.Sprintf("The %s specifying quantity", p) },
	},
	{
		kind: "flag",
		matches: func(s string) bool {
			return strings.Contains(s, "flag") || strings.Contains(s, "enable") || strings.HasPrefix(s, "is_")
		},
		describe: func(p string) string {
			subject := strings.ReplaceAll(strings.ReplaceAll(p, "is_", ""), "_", " ")
			return "Boolean flag indicating whether to " + subject
		},
	},
}

var genericBucket = paramBucket{
	kind:     "generic",
	matches:  func(string) bool { return true },
	describe: func(p string) string { return fmt.Sprintf("The %s parameter", p) },
}

// classifyParameter returns the first bucket whose predicate matches param.
func classifyParameter(param string) paramBucket {
	lower := strings.ToLower(param)
	for _, b := range parameterBuckets {
		if b.matches(lower) {
			return b
		}
	}
	return genericBucket
}

// DescribeParameter returns the templated description of param.
func DescribeParameter(param string) string {
	return classifyParameter(param).describe(param)
}

// returnRule maps a return annotation substring to a fixed sentence.
type returnRule struct {
	substring   string
	description string
}

var returnTypeTable = []returnRule{
	{"bool", "Boolean value indicating success or validation result"},
	{"int", "Integer value representing the computed result or count"},
	{"str", "String containing the processed or formatted output"},
	{"list", "List of processed items or results"},
	{"dict", "Dictionary containing structured result data"},
}

// namePrefixRule infers a return description from a function name prefix.
type namePrefixRule struct {
	prefixes    []string
	description string
}

var returnNameTable = []namePrefixRule{
	{[]string{"is", "has", "check"}, "Boolean value indicating the validation result"},
	{[]string{"get", "find"}, "The requested data or resource"},
	{[]string{"calculate", "compute"}, "The calculated numerical result"},
}

const genericReturnDescription = "The processed result of the operation"

// DescribeReturn describes the value returned by a function called name
// whose declared return type is annotation (empty when absent).
func DescribeReturn(name, annotation string) string {
	if annotation != "" {
		lower := strings.ToLower(annotation)
		for _, rule := range returnTypeTable {
			if strings.Contains(lower, rule.substring) {
				return rule.description
			}
		}
		return annotation + " object with the result"
	}

	tokens := SplitName(name)
	for _, rule := range returnNameTable {
		for _, prefix := range rule.prefixes {
			if hasNamePrefix(name, tokens, prefix) {
				return rule.description
			}
		}
	}
	return genericReturnDescription
}

// hasNamePrefix matches "prefix_..." names, and camelCase names whose
// first of several tokens is prefix.
func hasNamePrefix(name string, tokens []string, prefix string) bool {
	if strings.HasPrefix(name, prefix+"_") {
		return true
	}
	return len(tokens) > 1 && tokens[0] == prefix
}

// exampleRule picks a placeholder literal for a parameter in an example call.
type exampleRule struct {
	matches func(lower string) bool
	literal func(param string) string
}

var exampleTable = []exampleRule{
	{containsAny("name", "str"), func(p string) string { return fmt.Sprintf("%q", p+"_value") }},
	{containsAny("num", "count", "size"), func(string) string { return "10" }},
	{containsAny("list", "items"), func(string) string { return "[1, 2, 3]" }},
	{containsAny("dict", "data"), func(string) string { return `{"key": "value"}` }},
	{
		func(s string) bool { return strings.HasPrefix(s, "is_") || strings.Contains(s, "flag") },
		func(string) string { return "True" },
	},
}

// exampleLiteral returns the placeholder argument for param.
func exampleLiteral(param string) string {
	lower := strings.ToLower(param)
	for _, rule := range exampleTable {
		if rule.matches(lower) {
			return rule.literal(param)
		}
	}
	return param + "_value"
}
