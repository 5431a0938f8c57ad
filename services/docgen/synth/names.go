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
	"strings"
)

// SplitName decomposes an identifier into lowercase word tokens.
//
// Underscores delimit words. Within each underscore-free part, words start
// at an upper-case letter following a lower-case one, runs of capitals form
// a single acronym token (the last capital of a run starts the next word
// when a lower-case letter follows it), and digit runs stand alone.
// Characters other than ASCII letters and digits are dropped.
//
//	SplitName("calculate_total_price") // [calculate total price]
//	SplitName("HTTPServer")            // [http server]
//	SplitName("parseJSON2")            // [parse json 2]
func SplitName(name string) []string {
	tokens := []string{}
	for _, part := range strings.Split(name, "_") {
		for _, tok := range splitCamel(part) {
			tokens = append(tokens, strings.ToLower(tok))
		}
	}
	return tokens
}

func splitCamel(s string) []string {
	var tokens []string
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case isDigit(c):
			j := i
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			tokens = append(tokens, s[i:j])
			i = j
		case isUpper(c):
			j := i
			for j < len(s) && isUpper(s[j]) {
				j++
			}
			if j < len(s) && isLower(s[j]) {
				if j-i > 1 {
					tokens = append(tokens, s[i:j-1])
				}
				start := j - 1
				k := j
				for k < len(s) && isLower(s[k]) {
					k++
				}
				tokens = append(tokens, s[start:k])
				i = k
				continue
			}
			tokens = append(tokens, s[i:j])
			i = j
		case isLower(c):
			j := i
			for j < len(s) && isLower(s[j]) {
				j++
			}
			tokens = append(tokens, s[i:j])
			i = j
		default:
			i++
		}
	}
	return tokens
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// capitalize upper-cases the first byte of an ASCII token.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
