// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package models

import (
	"fmt"
	"time"
)

// SetupType classifies the directional claim a message makes about a
// ticker. Classification picks the first keyword family present in the
// ticker's context window, checked in this order: bullish, bearish,
// resistance, support, breakout, breakdown.
type SetupType string

const (
	SetupTypeBullish    SetupType = "bullish"
	SetupTypeBearish    SetupType = "bearish"
	SetupTypeResistance SetupType = "resistance"
	SetupTypeSupport    SetupType = "support"
	SetupTypeBreakout   SetupType = "breakout"
	SetupTypeBreakdown  SetupType = "breakdown"

	// SetupTypeUnknown is recorded when no keyword family matches. The
	// setup is still kept; a mention with no direction is still a mention.
	SetupTypeUnknown SetupType = "unknown"
)

// String returns the wire form of the setup type.
func (t SetupType) String() string {
	return string(t)
}

// DuplicatePolicy decides what happens when a parsed setup collides with
// an existing one for the same ticker and trading date.
type DuplicatePolicy string

const (
	// PolicyReplace drops the existing setup in favour of the new one.
	PolicyReplace DuplicatePolicy = "replace"

	// PolicySkip keeps the existing setup and discards the new one.
	PolicySkip DuplicatePolicy = "skip"

	// PolicyAllow stores both; downstream consumers see every claim.
	PolicyAllow DuplicatePolicy = "allow"
)

// ParseDuplicatePolicy maps a config string to a DuplicatePolicy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case PolicyReplace:
		return PolicyReplace, nil
	case PolicySkip:
		return PolicySkip, nil
	case PolicyAllow:
		return PolicyAllow, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want replace, skip or allow)", s)
	}
}

// ParsedSetup is one structured trading setup extracted from a message.
type ParsedSetup struct {
	ID        int64     `json:"id"`
	Ticker    string    `json:"ticker"`
	SetupType SetupType `json:"setup_type"`

	// PriceLevel is the price attached to the setup, when one was found
	// near a price cue in the context window. Nil means no price.
	PriceLevel *float64 `json:"price_level,omitempty"`

	// TradingDate is the session the setup refers to, YYYY-MM-DD.
	TradingDate string `json:"trading_date"`

	// SourceMessageID links back to the message this was extracted from.
	SourceMessageID string `json:"source_message_id"`

	// RawContext is the context window the extraction ran over, kept for
	// human review of surprising extractions.
	RawContext string `json:"raw_context"`

	// ContentLength is the length of the full source message content.
	ContentLength int       `json:"content_length"`
	CreatedAt     time.Time `json:"created_at"`
}

// ParseResult is everything the parser extracted from one message.
type ParseResult struct {
	// ParsedDate is the trading date resolved for the message,
	// YYYY-MM-DD. Always set: messages without an explicit date header
	// fall back to the ingestion date in the trading timezone.
	ParsedDate string `json:"parsed_date"`

	// Tickers are the candidate symbols found, first-occurrence order,
	// after normalization and dedup.
	Tickers []string `json:"tickers"`

	// Setups holds one entry per ticker, in the same order.
	Setups []ParsedSetup `json:"setups"`
}
