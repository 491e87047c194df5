// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package parser extracts structured trading setups from free-form
// chat messages.
//
// Extraction Pipeline:
//
//	content -> trading date -> candidate tickers -> per-ticker window
//	                                                  |
//	                                                  v
//	                                     setup type + price level
//
// The stages are fixed heuristics, applied in order:
//
//   - Trading date: a "Friday, June 6th 2025" style header anywhere in
//     the message; impossible calendar dates fall back to the
//     ingestion date with a warning.
//   - Tickers: 1-5 letter uppercase tokens, filtered through a
//     stop-word list and normalized through the index alias table
//     (SP500 -> SPY, DOWJONES -> DIA, SPX* -> SPX). First occurrence
//     wins; later repeats of the same symbol are ignored.
//   - Setups: for each ticker, a bounded window of following text is
//     scanned for a cued price level ("above 210", "support at 195")
//     and a setup-type keyword (bullish, bearish, resistance, support,
//     breakout, breakdown).
//
// Parsing is best effort and never fails: a message with no
// recognizable tickers yields an empty result, and the caller decides
// how to record that outcome. Success rates are measured downstream
// rather than assumed here.
package parser
