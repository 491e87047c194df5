// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import "github.com/goccy/go-json"

// Request validation structs with go-playground/validator tags. Query
// parameters are collected into these structs and validated before any
// storage call; body-carried requests decode straight into them.
//
// The validation tags follow the go-playground/validator v10 syntax:
//   - required: field must be present and non-zero
//   - min,max: numeric or string length bounds
//   - oneof: value must be one of the specified options
//   - datetime: value must match the specified time format
//   - event_channel,event_type,ticker: domain validators (see internal/validation)
//   - omitempty: skip validation if field is empty/zero

// AppendEventRequest represents the request body for POST /api/v1/events.
//
// Fields:
//   - Channel: Required event channel (must be a known channel)
//   - EventType: Required event type (must be a known type)
//   - Source: Required component name that emitted the event (1-64 chars)
//   - CorrelationID: Optional flow identifier (max 128 chars)
//   - Data: Optional structured payload, stored verbatim
type AppendEventRequest struct {
	Channel       string          `json:"channel" validate:"required,event_channel"`
	EventType     string          `json:"event_type" validate:"required,event_type"`
	Source        string          `json:"source" validate:"required,min=1,max=64"`
	CorrelationID string          `json:"correlation_id" validate:"omitempty,max=128"`
	Data          json.RawMessage `json:"data"`
}

// EventsRequest represents the validated query parameters for GET /api/v1/events.
//
// Fields:
//   - Channel: Filter by event channel (optional)
//   - EventType: Filter by event type (optional)
//   - Source: Filter by emitting component (optional, max 64 chars)
//   - CorrelationID: Filter by flow identifier (optional, max 128 chars)
//   - Since, Until: Bound created_at (RFC3339 format)
//   - Limit: Results per page (1-1000, default from config)
//   - Offset: Pagination offset (0-1000000)
type EventsRequest struct {
	Channel       string `validate:"omitempty,event_channel"`
	EventType     string `validate:"omitempty,event_type"`
	Source        string `validate:"omitempty,max=64"`
	CorrelationID string `validate:"omitempty,max=128"`
	Since         string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Until         string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Limit         int    `validate:"min=1,max=1000"`
	Offset        int    `validate:"min=0,max=1000000"`
}

// StatsRequest represents the validated query parameters shared by the
// statistics endpoints (events/statistics, stats/parsing, stats/audit,
// stats/latency).
//
// Fields:
//   - WindowHours: Statistics window in hours (1-8760)
type StatsRequest struct {
	WindowHours int `validate:"min=1,max=8760"`
}

// FlowsRecentRequest represents the validated query parameters for
// GET /api/v1/flows/recent.
//
// Fields:
//   - WindowHours: Flow window in hours (1-8760)
//   - Limit: Maximum flows to return (1-1000)
type FlowsRecentRequest struct {
	WindowHours int `validate:"min=1,max=8760"`
	Limit       int `validate:"min=1,max=1000"`
}

// SetupsRequest represents the validated query parameters for GET /api/v1/setups.
//
// Fields:
//   - Ticker: Filter by ticker symbol (optional, 1-5 uppercase letters)
//   - SetupType: Filter by setup classification (optional)
//   - TradingDate: Filter by trading date (optional, YYYY-MM-DD)
//   - Limit: Results per page (1-1000, default from config)
//   - Offset: Pagination offset (0-1000000)
type SetupsRequest struct {
	Ticker      string `validate:"omitempty,ticker"`
	SetupType   string `validate:"omitempty,oneof=bullish bearish resistance support breakout breakdown unknown"`
	TradingDate string `validate:"omitempty,datetime=2006-01-02"`
	Limit       int    `validate:"min=1,max=1000"`
	Offset      int    `validate:"min=0,max=1000000"`
}
