// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with custom domain validators and user-friendly
// error messages. It integrates with the API error envelope for consistent
// error responses.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Custom validators for ticker symbols, event channels, and event types
//   - Error translation to human-readable messages
//   - Conversion to models.APIError with the VALIDATION_ERROR code
//   - WithRequiredStructEnabled for v11 compatibility
//
// # Quick Start
//
//	type SetupsQuery struct {
//	    Ticker      string `validate:"omitempty,ticker"`
//	    TradingDate string `validate:"omitempty,datetime=2006-01-02"`
//	    Limit       int    `validate:"min=1,max=1000"`
//	    Offset      int    `validate:"min=0"`
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    req := SetupsQuery{...}
//	    if verr := validation.ValidateStruct(&req); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	        return
//	    }
//	    // proceed with valid request
//	}
//
// # Custom Validators
//
// Registered on the singleton at first use:
//   - ticker: uppercase exchange symbol, 1 to 5 letters (AAPL, F, GOOGL)
//   - event_channel: one of the known event channels (ingestion:message,
//     parsing:setup, ...); the forward-compatibility value "other" is
//     rejected at the API boundary
//   - event_type: one of the known event types (info, warning, error,
//     success, duplicate_skipped); "other" is rejected at the API boundary
//
// # Error Format
//
// ToAPIError always produces code VALIDATION_ERROR. A single failed field
// yields Details{field, tag, value}; multiple failures yield Details{fields}
// with one entry per field and a combined message.
package validation
