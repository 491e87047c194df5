// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package parser

import (
	"regexp"
	"strconv"

	"github.com/tomtom215/tickerflow/internal/models"
)

// pricePattern finds a numeric level preceded by one of the fixed cue
// words, with an optional dollar sign: "breakout above 210",
// "support at $195.50".
var pricePattern = regexp.MustCompile(
	`(?i)\b(?:near|at|around|above|below|resistance|support)\s+\$?(\d+(?:\.\d+)?)\b`)

// setupTypePatterns is the classification priority list. The first
// keyword found anywhere in the window decides the type; order in this
// slice is the priority order, not position in the text.
var setupTypePatterns = []struct {
	setupType models.SetupType
	pattern   *regexp.Regexp
}{
	{models.SetupTypeBullish, regexp.MustCompile(`(?i)\bbullish\b`)},
	{models.SetupTypeBearish, regexp.MustCompile(`(?i)\bbearish\b`)},
	{models.SetupTypeResistance, regexp.MustCompile(`(?i)\bresistance\b`)},
	{models.SetupTypeSupport, regexp.MustCompile(`(?i)\bsupport\b`)},
	{models.SetupTypeBreakout, regexp.MustCompile(`(?i)\bbreakouts?\b`)},
	{models.SetupTypeBreakdown, regexp.MustCompile(`(?i)\bbreakdowns?\b`)},
}

// classifySetupType returns the highest-priority keyword present in
// the window, or SetupTypeUnknown when none match.
func classifySetupType(window string) models.SetupType {
	for _, entry := range setupTypePatterns {
		if entry.pattern.MatchString(window) {
			return entry.setupType
		}
	}
	return models.SetupTypeUnknown
}

// extractPrice returns the first cued price level in the window.
func extractPrice(window string) (float64, bool) {
	groups := pricePattern.FindStringSubmatch(window)
	if groups == nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return 0, false
	}
	return price, true
}
