// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package pipeline runs messages through ingestion and parsing as one
// synchronous flow, so a single ProcessMessage call yields the complete
// correlation trail: stored row, ingestion event, persisted setups, and
// the terminal parsing event.
//
//	ProcessMessage
//	    ingest.Stage.Ingest        stored row + ingestion:message
//	    parser.Parser.Parse        tickers, setups, trading date
//	    Store.SaveSetups           duplicate policy per (ticker, date)
//	    EventSink.AppendEvent      parsing:setup or parsing:failed
//	    Store.MarkMessageParsed    sweep bookkeeping
//
// A redelivered message stops after ingestion: the original flow owns
// the parse, so the duplicate path records its skip event and returns.
//
// The Sweeper covers the gap between storing and parsing. Messages with
// a NULL parsed_at (a crash between the two stages, or rows imported
// outside the live path) are picked up on an interval, ordered by
// (stored_at, message_id) so re-runs are deterministic, and paced by a
// rate limiter so a deep backlog cannot monopolize the database.
//
// Zero-setup parses are terminal, not errors: the message is marked
// parsed and the flow completes with parsing:failed. Most chat traffic
// is commentary, and re-parsing it would never yield anything new.
package pipeline
