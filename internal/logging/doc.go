// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package logging provides centralized zerolog-based structured logging.
//
// Every record a message flow produces — ingestion, parsing, event append —
// carries the flow's correlation ID when logged through Ctx, so an operator
// can grep one ID and see the whole journey of a message.
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output for production, console output for development
//   - Context-aware logging with correlation/request ID propagation
//   - An slog.Handler adapter for sutureslog (supervisor events)
//   - NewTestLogger for capturing output in tests
//
// See logger.go for initialization, context.go for ID propagation.
package logging
