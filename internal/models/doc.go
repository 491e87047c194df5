// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package models defines the domain types shared across the pipeline:
// correlation events, raw and stored chat messages, parsed trading
// setups, and the REST response envelope.
//
// The package has no dependencies on storage or transport so that every
// layer (database, ingestion, parser, API, websocket) can exchange the
// same types without import cycles.
package models
