// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package database

import (
	"strings"
	"time"

	"github.com/tomtom215/tickerflow/internal/models"
)

// Query limit bounds applied when a filter leaves Limit unset or asks
// for more than the store will return in one page.
const (
	DefaultQueryLimit = 100
	MaxQueryLimit     = 1000
)

// EventFilter narrows event queries. Zero values mean "no filter" for
// that dimension.
type EventFilter struct {
	Channel       models.Channel
	EventType     models.EventType
	Source        string
	CorrelationID string
	Since         *time.Time
	Until         *time.Time
	Limit         int
	Offset        int
}

// whereClause builds the WHERE fragment and bind args for the filter.
// Returns an empty string when no dimension is set.
func (f EventFilter) whereClause() (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.Channel != "" {
		conditions = append(conditions, "channel = ?")
		args = append(args, string(f.Channel))
	}
	if f.EventType != "" {
		conditions = append(conditions, "event_type = ?")
		args = append(args, string(f.EventType))
	}
	if f.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, f.Source)
	}
	if f.CorrelationID != "" {
		conditions = append(conditions, "correlation_id = ?")
		args = append(args, f.CorrelationID)
	}
	if f.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, f.Since.UTC())
	}
	if f.Until != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, f.Until.UTC())
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// normalizedLimit clamps the filter limit into [1, MaxQueryLimit],
// falling back to DefaultQueryLimit when unset.
func (f EventFilter) normalizedLimit() int {
	return clampLimit(f.Limit)
}

// SetupFilter narrows setup queries.
type SetupFilter struct {
	Ticker      string
	SetupType   models.SetupType
	TradingDate string // YYYY-MM-DD, exact match
	Limit       int
	Offset      int
}

func (f SetupFilter) whereClause() (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.Ticker != "" {
		conditions = append(conditions, "ticker = ?")
		args = append(args, f.Ticker)
	}
	if f.SetupType != "" {
		conditions = append(conditions, "setup_type = ?")
		args = append(args, string(f.SetupType))
	}
	if f.TradingDate != "" {
		conditions = append(conditions, "trading_date = CAST(? AS DATE)")
		args = append(args, f.TradingDate)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (f SetupFilter) normalizedLimit() int {
	return clampLimit(f.Limit)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		return MaxQueryLimit
	}
	return limit
}
