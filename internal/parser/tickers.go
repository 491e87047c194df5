// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// tickerPattern matches candidate symbols: runs of 1-5 uppercase
// letters, plus the index aliases that contain digits (SPY500, SP500,
// SPX variants). The aliases need their own alternatives because \b
// does not break between a letter and an adjacent digit.
var tickerPattern = regexp.MustCompile(`\b(?:SPY500|SP500|SPX[A-Z0-9]*|DOWJONES|[A-Z]{1,5})\b`)

// tickerAliases maps chat shorthand for index products onto the symbol
// actually stored. Keys and values are canonical-uppercase.
var tickerAliases = map[string]string{
	"SPY500":   "SPY",
	"SP500":    "SPY",
	"DJI":      "DIA",
	"DOWJONES": "DIA",
}

// baseStopWords lists uppercase tokens that satisfy the ticker shape
// but are ordinary words in trading chat. Comparison happens after
// normalization, so an alias can never be shadowed by a stop word.
var baseStopWords = []string{
	// Short English words that show up capitalized in shouty chat.
	"A", "ALL", "AM", "AN", "AND", "ANY", "ARE", "AS", "AT", "BE",
	"BIG", "BUT", "BUY", "BY", "CAN", "DAY", "DID", "DO", "DONT",
	"DOWN", "FOR", "FROM", "GAP", "GET", "GO", "GOES", "GOING",
	"GOOD", "GOT", "HAD", "HAS", "HE", "HER", "HERE", "HIGH", "HIS",
	"HOW", "I", "IF", "IN", "INTO", "IS", "IT", "ITS", "JUST", "KEY",
	"LAST", "LET", "LONG", "LOW", "ME", "MORE", "MOST", "MY", "NEAR",
	"NEW", "NEXT", "NO", "NOT", "NOW", "OF", "OFF", "ON", "ONE",
	"ONLY", "OR", "OUR", "OUT", "OVER", "PM", "SELL", "SHE", "SO",
	"SOME", "SOON", "STILL", "STOP", "THAT", "THE", "THEN", "THIS",
	"TO", "TODAY", "TOO", "UP", "US", "WAS", "WATCH", "WE", "WELL",
	"WHAT", "WHEN", "WHO", "WHY", "WILL", "WITH", "YES", "YET", "YOU",
	// Trading-floor slang and acronyms that are not symbols here.
	"ATH", "ATM", "AH", "BTFD", "CALL", "CALLS", "CEO", "DD", "EOD",
	"EOW", "EPS", "ETF", "FED", "FOMC", "FOMO", "HOD", "HODL", "IMO",
	"IPO", "ITM", "IV", "LOD", "LOL", "OTM", "PT", "PUT", "PUTS",
	"RSI", "SEC", "TA", "VWAP", "YOLO",
	// Weekday and month tokens short enough to match the shape.
	"MON", "TUE", "TUES", "WED", "THU", "THUR", "THURS", "FRI", "SAT",
	"SUN", "JAN", "FEB", "MAR", "MARCH", "APR", "APRIL", "MAY", "JUN",
	"JUNE", "JUL", "JULY", "AUG", "SEP", "SEPT", "OCT", "NOV", "DEC",
}

// tickerMatch records one accepted candidate: the normalized symbol
// and the byte span of its first occurrence in the message.
type tickerMatch struct {
	symbol string
	start  int
	end    int
}

// Normalize folds chat aliases onto canonical symbols. SPX-prefixed
// tokens collapse to SPX; everything else passes through unchanged.
// The mapping is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(symbol string) string {
	if canonical, ok := tickerAliases[symbol]; ok {
		return canonical
	}
	if strings.HasPrefix(symbol, "SPX") {
		return "SPX"
	}
	return symbol
}

// extractTickers scans the message and returns accepted candidates in
// first-occurrence order. Normalization runs before both the stop-word
// check and deduplication, so "SPX" and "SPXW" count as one symbol.
func (p *Parser) extractTickers(content string) []tickerMatch {
	spans := tickerPattern.FindAllStringIndex(content, -1)
	if len(spans) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(spans))
	matches := make([]tickerMatch, 0, len(spans))
	for _, span := range spans {
		symbol := Normalize(content[span[0]:span[1]])
		if _, stop := p.stopWords[symbol]; stop {
			continue
		}
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		matches = append(matches, tickerMatch{symbol: symbol, start: span[0], end: span[1]})
	}
	return matches
}

// windowEnd clamps from+size to the message length, then walks forward
// to the next rune boundary so the window never splits a multi-byte
// character.
func windowEnd(content string, from, size int) int {
	end := from + size
	if end >= len(content) {
		return len(content)
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end++
	}
	return end
}
