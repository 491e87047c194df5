// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package parser

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/models"
)

// DefaultContextWindow is the number of bytes of text examined after a
// ticker's first occurrence when no window size is configured.
const DefaultContextWindow = 200

// Parser extracts trading setups from free-form chat messages. All
// pattern state is compiled at package init or construction time; a
// Parser is immutable afterwards and safe for concurrent use.
type Parser struct {
	window    int
	stopWords map[string]struct{}
}

// New builds a Parser from configuration. A nil config yields the
// defaults: a 200-byte context window and the base stop-word set.
func New(cfg *config.ParserConfig) *Parser {
	window := DefaultContextWindow
	if cfg != nil && cfg.ContextWindow > 0 {
		window = cfg.ContextWindow
	}

	stop := make(map[string]struct{}, len(baseStopWords)+8)
	for _, word := range baseStopWords {
		stop[word] = struct{}{}
	}
	if cfg != nil {
		for _, word := range cfg.ExtraStopWords {
			word = strings.ToUpper(strings.TrimSpace(word))
			if word != "" {
				stop[word] = struct{}{}
			}
		}
	}

	return &Parser{window: window, stopWords: stop}
}

// Parse extracts the trading date, candidate tickers and per-ticker
// setups from one message. hint supplies the fallback trading date
// (normally the ingestion date) and the year for date headers that
// omit one. ctx is used only for correlated logging.
//
// Parse never fails: ambiguity resolves to defaults, and a message
// without recognizable tickers simply yields an empty setup list.
func (p *Parser) Parse(ctx context.Context, content string, hint time.Time) models.ParseResult {
	tradingDate := extractTradingDate(ctx, content, hint)
	candidates := p.extractTickers(content)

	tickers := make([]string, 0, len(candidates))
	setups := make([]models.ParsedSetup, 0, len(candidates))
	for _, candidate := range candidates {
		tickers = append(tickers, candidate.symbol)
		setups = append(setups, p.buildSetup(content, candidate, tradingDate))
	}

	return models.ParseResult{
		ParsedDate: tradingDate,
		Tickers:    tickers,
		Setups:     setups,
	}
}

// buildSetup runs the window-bounded extraction for one candidate.
// Price and setup-type cues are read from the window that starts at the
// ticker's first occurrence; RawContext keeps the ticker token itself
// so stored extractions read naturally.
func (p *Parser) buildSetup(content string, candidate tickerMatch, tradingDate string) models.ParsedSetup {
	end := windowEnd(content, candidate.end, p.window)
	window := content[candidate.end:end]

	setup := models.ParsedSetup{
		Ticker:        candidate.symbol,
		SetupType:     classifySetupType(window),
		TradingDate:   tradingDate,
		RawContext:    content[candidate.start:end],
		ContentLength: len(content),
	}
	if price, ok := extractPrice(window); ok {
		setup.PriceLevel = &price
	}
	return setup
}
