// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package models

import "time"

// APIResponse is the standard envelope for all REST responses.
type APIResponse struct {
	Status   string      `json:"status"` // "success" or "error"
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError carries error details in a response.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// EventStatistics summarizes the event store over a recent window.
// ErrorRate is the fraction of events in the window whose event_type is
// "error", zero when the window is empty.
type EventStatistics struct {
	WindowHours          int              `json:"window_hours"`
	TotalEvents          int64            `json:"total_events"`
	ByChannel            map[string]int64 `json:"by_channel"`
	ByEventType          map[string]int64 `json:"by_event_type"`
	ErrorRate            float64          `json:"error_rate"`
	DistinctCorrelations int64            `json:"distinct_correlations"`
	OldestEvent          *time.Time       `json:"oldest_event,omitempty"`
	NewestEvent          *time.Time       `json:"newest_event,omitempty"`
}

// ParsingStats summarizes parse outcomes over a recent window.
//
// TotalMessages counts messages stored in the window; Parsed and Failed
// count terminal parsing events. SuccessRate is Parsed over TotalMessages,
// zero when the window is empty.
type ParsingStats struct {
	WindowHours   int     `json:"window_hours"`
	TotalMessages int64   `json:"total_messages"`
	Parsed        int64   `json:"parsed"`
	Failed        int64   `json:"failed"`
	Pending       int64   `json:"pending"`
	SuccessRate   float64 `json:"success_rate"`
}

// AuditStats summarizes ingestion anomaly flags over a recent window,
// plus the (ticker, trading_date) keys holding more than one setup row.
type AuditStats struct {
	WindowHours          int                   `json:"window_hours"`
	TotalMessages        int64                 `json:"total_messages"`
	WeekendCount         int64                 `json:"weekend_count"`
	OutOfHoursCount      int64                 `json:"out_of_hours_count"`
	BackdatedCount       int64                 `json:"backdated_count"`
	FlaggedCount         int64                 `json:"flagged_count"`
	DuplicateTradingDays []DuplicateTradingDay `json:"duplicate_trading_days"`
}

// DuplicateTradingDay identifies a ticker/date slot with multiple setups.
type DuplicateTradingDay struct {
	Ticker      string `json:"ticker"`
	TradingDate string `json:"trading_date"`
	Count       int64  `json:"count"`
}

// LatencyStats summarizes ingestion lag (platform timestamp to storage)
// over a recent window, in milliseconds.
type LatencyStats struct {
	WindowHours int     `json:"window_hours"`
	Count       int64   `json:"count"`
	MedianMS    float64 `json:"median_ms"`
	P90MS       float64 `json:"p90_ms"`
	MaxMS       int64   `json:"max_ms"`
}

// HealthScore is the categorical pipeline health verdict: "critical"
// when the error-event fraction exceeds its threshold, "warning" when
// parse success rate falls below its threshold, "healthy" otherwise.
// Both thresholds come from configuration, not code.
type HealthScore struct {
	Status          string    `json:"status"`
	ErrorRate       float64   `json:"error_rate"`
	SuccessRate     float64   `json:"success_rate"`
	PendingMessages int64     `json:"pending_messages"`
	WindowHours     int       `json:"window_hours"`
	ComputedAt      time.Time `json:"computed_at"`
}

// Health status values.
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusWarning  = "warning"
	HealthStatusCritical = "critical"
)

// FlowSummary is the per-correlation view used by flow listings. One row
// per correlation ID, newest first.
type FlowSummary struct {
	CorrelationID string    `json:"correlation_id"`
	EventCount    int64     `json:"event_count"`
	Channels      []string  `json:"channels"`
	StartedAt     time.Time `json:"started_at"`
	LastEventAt   time.Time `json:"last_event_at"`
	Complete      bool      `json:"complete"`
}

// TraceResult is the full reconstruction of one correlation flow: its
// events in insertion order plus a completeness verdict. A complete flow
// has an ingestion event and a terminal parsing event (setup or failed).
type TraceResult struct {
	CorrelationID string  `json:"correlation_id"`
	Complete      bool    `json:"complete"`
	EventCount    int     `json:"event_count"`
	Events        []Event `json:"events"`
}

// EventsResponse wraps one page of the event log with offset pagination.
// Total is the unpaged match count for the same filter.
type EventsResponse struct {
	Events []Event `json:"events"`
	Total  int64   `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// SetupsResponse wraps one page of parsed setups with offset pagination.
// Total is the unpaged match count for the same filter.
type SetupsResponse struct {
	Setups []ParsedSetup `json:"setups"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// FlowsResponse wraps recent flow summaries for one window.
type FlowsResponse struct {
	Flows       []FlowSummary `json:"flows"`
	WindowHours int           `json:"window_hours"`
}

// ServiceHealth is the process-level health report: storage
// connectivity, uptime, and live connection counts. Pipeline health
// (parse rates, verdicts) lives in HealthScore.
type ServiceHealth struct {
	Status            string  `json:"status"` // "healthy" or "degraded"
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
	WebsocketClients  int     `json:"websocket_clients"`
	PendingMessages   int64   `json:"pending_messages"`
}
