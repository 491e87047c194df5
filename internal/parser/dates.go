// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package parser

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/tickerflow/internal/logging"
)

// dateLayout is the canonical trading-date format used throughout the
// pipeline and the setups table.
const dateLayout = "2006-01-02"

// datePattern matches session headers of the form
// "Friday, June 6th 2025": weekday, full month name, day with an
// optional ordinal suffix, and an optional year. Each element must be
// separated by whitespace or a comma.
var datePattern = regexp.MustCompile(
	`(?i)\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)` +
		`(?:\s*,\s*|\s+)` +
		`(january|february|march|april|may|june|july|august|september|october|november|december)` +
		`\s+(\d{1,2})(?:st|nd|rd|th)?` +
		`(?:(?:\s*,\s*|\s+)(\d{4}))?\b`)

// months resolves the captured month name. Keys are lowercase because
// the pattern is case-insensitive.
var months = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// extractTradingDate returns the trading date named in the message, or
// the hint's calendar day when no header is present. The hint arrives
// already converted to the trading timezone, so its wall-clock day is
// used as-is. A header that names an impossible calendar date
// (February 30th) is discarded with a warning and the hint date is
// used instead. A header without a year borrows the hint's year.
func extractTradingDate(ctx context.Context, content string, hint time.Time) string {
	fallback := hint.Format(dateLayout)

	groups := datePattern.FindStringSubmatch(content)
	if groups == nil {
		return fallback
	}

	month := months[strings.ToLower(groups[1])]
	day, err := strconv.Atoi(groups[2])
	if err != nil {
		return fallback
	}
	year := hint.Year()
	if groups[3] != "" {
		parsed, err := strconv.Atoi(groups[3])
		if err != nil {
			return fallback
		}
		year = parsed
	}

	// time.Date normalizes overflow (Feb 30 becomes Mar 2), so a
	// round-trip mismatch means the header named a day that does not
	// exist in that month.
	candidate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if candidate.Year() != year || candidate.Month() != month || candidate.Day() != day {
		logging.Ctx(ctx).Warn().
			Str("extracted", groups[0]).
			Str("fallback", fallback).
			Msg("Message names an impossible calendar date, using ingestion date")
		return fallback
	}

	return candidate.Format(dateLayout)
}
