// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package eval

// Interpretation bands. These are presentation hints only.

// InterpretKeywordOverlap labels a keyword overlap score.
func InterpretKeywordOverlap(score float64) string {
	switch {
	case score >= 80:
		return "Excellent - High semantic similarity"
	case score >= 60:
		return "Good - Adequate coverage of key concepts"
	case score >= 40:
		return "Moderate - Some important concepts missing"
	default:
		return "Low - Significant semantic differences"
	}
}

// InterpretCoverage labels a coverage score.
func InterpretCoverage(score float64) string {
	switch {
	case score == 100:
		return "Perfect - All elements documented"
	case score >= 80:
		return "High - Most elements documented"
	case score >= 60:
		return "Moderate - Some elements missing documentation"
	default:
		return "Low - Many elements undocumented"
	}
}

// InterpretLengthRatio labels a length ratio.
func InterpretLengthRatio(ratio float64) string {
	switch {
	case ratio >= 0.8 && ratio <= 1.2:
		return "Balanced - Similar verbosity to human docs"
	case ratio > 1.2:
		return "Verbose - AI documentation is more detailed"
	default:
		return "Concise - AI documentation is briefer"
	}
}

// InterpretConsistency labels a consistency score.
func InterpretConsistency(score float64) string {
	switch {
	case score >= 90:
		return "Highly Consistent - Uniform style throughout"
	case score >= 70:
		return "Generally Consistent - Minor variations"
	case score >= 50:
		return "Moderately Consistent - Some inconsistencies"
	default:
		return "Inconsistent - Significant style variations"
	}
}
