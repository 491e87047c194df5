// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/tickerflow/internal/models"
)

func TestGetEventStatistics(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	appendTestEvent(t, db, models.ChannelIngestionMessage, models.EventTypeInfo, "corr-1")
	appendTestEvent(t, db, models.ChannelParsingSetup, models.EventTypeSuccess, "corr-1")
	appendTestEvent(t, db, models.ChannelParsingFailed, models.EventTypeError, "corr-2")

	stats, err := db.GetEventStatistics(context.Background(), 168)
	checkNoError(t, err)

	checkInt64Equal(t, "total_events", stats.TotalEvents, 3)
	checkInt64Equal(t, "by_channel ingestion", stats.ByChannel["ingestion:message"], 1)
	checkInt64Equal(t, "by_channel parsing:setup", stats.ByChannel["parsing:setup"], 1)
	checkInt64Equal(t, "by_event_type error", stats.ByEventType["error"], 1)
	checkInt64Equal(t, "distinct_correlations", stats.DistinctCorrelations, 2)
	checkFloatNear(t, "error_rate", stats.ErrorRate, 1.0/3.0, 0.0001)

	if stats.OldestEvent == nil || stats.NewestEvent == nil {
		t.Fatal("expected oldest and newest timestamps")
	}
	if stats.NewestEvent.Before(*stats.OldestEvent) {
		t.Errorf("newest %v before oldest %v", stats.NewestEvent, stats.OldestEvent)
	}
}

func TestGetEventStatistics_EmptyStore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	stats, err := db.GetEventStatistics(context.Background(), 168)
	checkNoError(t, err)

	checkInt64Equal(t, "total_events", stats.TotalEvents, 0)
	checkFloatNear(t, "error_rate", stats.ErrorRate, 0, 0.0001)
	if stats.OldestEvent != nil || stats.NewestEvent != nil {
		t.Error("expected nil timestamps for empty store")
	}
	checkSliceLen(t, "by_channel", len(stats.ByChannel), 0)
}

func TestGetEventStatistics_WindowExcludesOldEvents(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	old := &models.Event{
		Channel:   models.ChannelSystem,
		EventType: models.EventTypeError,
		Source:    "test",
		Data:      testEventData(),
		CreatedAt: time.Now().UTC().Add(-72 * time.Hour),
	}
	checkNoError(t, db.AppendEvent(context.Background(), old))
	appendTestEvent(t, db, models.ChannelSystem, models.EventTypeInfo, "")

	stats, err := db.GetEventStatistics(context.Background(), 24)
	checkNoError(t, err)
	checkInt64Equal(t, "windowed total", stats.TotalEvents, 1)
	checkFloatNear(t, "windowed error_rate", stats.ErrorRate, 0, 0.0001)

	all, err := db.GetEventStatistics(context.Background(), 0)
	checkNoError(t, err)
	checkInt64Equal(t, "unbounded total", all.TotalEvents, 2)
}

// The window is carried in hours, so a lookback shorter than a day has
// to work: a 6-hour window must drop an event from 7 hours ago while a
// 24-hour window keeps it.
func TestGetEventStatistics_SubDayWindow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	stale := &models.Event{
		Channel:   models.ChannelSystem,
		EventType: models.EventTypeInfo,
		Source:    "test",
		Data:      testEventData(),
		CreatedAt: time.Now().UTC().Add(-7 * time.Hour),
	}
	checkNoError(t, db.AppendEvent(context.Background(), stale))
	appendTestEvent(t, db, models.ChannelSystem, models.EventTypeInfo, "")

	narrow, err := db.GetEventStatistics(context.Background(), 6)
	checkNoError(t, err)
	checkInt64Equal(t, "6h window total", narrow.TotalEvents, 1)

	wide, err := db.GetEventStatistics(context.Background(), 24)
	checkNoError(t, err)
	checkInt64Equal(t, "24h window total", wide.TotalEvents, 2)
}

// 39 stored messages of which 24 produce a parsing:setup event and 10 a
// parsing:failed event yields a success rate of 24/39 (roughly 61.5%),
// with the remaining 5 pending.
func TestGetParsingStats_SuccessRate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 39; i++ {
		messageID := fmt.Sprintf("msg-%d", i)
		correlationID := fmt.Sprintf("corr-%d", i)
		insertTestMessage(t, db, messageID, correlationID, now.Add(-time.Duration(i)*time.Minute))

		switch {
		case i < 24:
			appendTestEvent(t, db, models.ChannelParsingSetup, models.EventTypeSuccess, correlationID)
			checkNoError(t, db.MarkMessageParsed(ctx, messageID, now))
		case i < 34:
			appendTestEvent(t, db, models.ChannelParsingFailed, models.EventTypeError, correlationID)
			checkNoError(t, db.MarkMessageParsed(ctx, messageID, now))
		}
	}

	stats, err := db.GetParsingStats(ctx, 168)
	checkNoError(t, err)

	checkInt64Equal(t, "total_messages", stats.TotalMessages, 39)
	checkInt64Equal(t, "parsed", stats.Parsed, 24)
	checkInt64Equal(t, "failed", stats.Failed, 10)
	checkInt64Equal(t, "pending", stats.Pending, 5)
	checkFloatNear(t, "success_rate", stats.SuccessRate, 0.615, 0.001)
}

func TestGetParsingStats_EmptyWindow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	stats, err := db.GetParsingStats(context.Background(), 168)
	checkNoError(t, err)
	checkInt64Equal(t, "total_messages", stats.TotalMessages, 0)
	checkFloatNear(t, "success_rate", stats.SuccessRate, 0, 0.0001)
}

func TestGetAuditStats(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	clean := &models.Message{
		MessageID: "msg-clean", AuthorID: "trader1", Content: "c",
		PlatformTimestamp: now, StoredAt: now, CorrelationID: "corr-c",
	}
	weekend := &models.Message{
		MessageID: "msg-weekend", AuthorID: "trader1", Content: "w",
		PlatformTimestamp: now, StoredAt: now, CorrelationID: "corr-w",
		Flags: models.AuditFlags{IsWeekend: true, IsOutOfHours: true},
	}
	backdated := &models.Message{
		MessageID: "msg-backdated", AuthorID: "trader1", Content: "b",
		PlatformTimestamp: now.Add(-48 * time.Hour), StoredAt: now, CorrelationID: "corr-b",
		Flags: models.AuditFlags{IsBackdated: true},
	}
	for _, msg := range []*models.Message{clean, weekend, backdated} {
		inserted, err := db.InsertMessage(ctx, msg)
		checkNoError(t, err)
		checkTrue(t, "inserted", inserted)
	}

	// Two setups on the same slot under allow, one on its own
	_, err := db.SaveSetups(ctx, []models.ParsedSetup{
		testSetup("AAPL", "2025-06-05", "msg-1"),
		testSetup("AAPL", "2025-06-05", "msg-2"),
		testSetup("TSLA", "2025-06-05", "msg-3"),
	}, models.PolicyAllow)
	checkNoError(t, err)

	stats, err := db.GetAuditStats(ctx, 168)
	checkNoError(t, err)

	checkInt64Equal(t, "total_messages", stats.TotalMessages, 3)
	checkInt64Equal(t, "weekend_count", stats.WeekendCount, 1)
	checkInt64Equal(t, "out_of_hours_count", stats.OutOfHoursCount, 1)
	checkInt64Equal(t, "backdated_count", stats.BackdatedCount, 1)
	checkInt64Equal(t, "flagged_count", stats.FlaggedCount, 2)

	checkSliceLen(t, "duplicate_trading_days", len(stats.DuplicateTradingDays), 1)
	dup := stats.DuplicateTradingDays[0]
	checkStringEqual(t, "dup ticker", dup.Ticker, "AAPL")
	checkStringEqual(t, "dup trading_date", dup.TradingDate, "2025-06-05")
	checkInt64Equal(t, "dup count", dup.Count, 2)
}

func TestGetLatencyStats(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	latencies := []int64{100, 200, 300, 400, 500}
	for i, ms := range latencies {
		msg := &models.Message{
			MessageID:         fmt.Sprintf("msg-%d", i),
			AuthorID:          "trader1",
			Content:           "c",
			PlatformTimestamp: now.Add(-time.Duration(ms) * time.Millisecond),
			StoredAt:          now,
			CorrelationID:     fmt.Sprintf("corr-%d", i),
			TimeToIngestMS:    ms,
		}
		inserted, err := db.InsertMessage(ctx, msg)
		checkNoError(t, err)
		checkTrue(t, "inserted", inserted)
	}

	stats, err := db.GetLatencyStats(ctx, 168)
	checkNoError(t, err)

	checkInt64Equal(t, "count", stats.Count, 5)
	checkFloatNear(t, "median_ms", stats.MedianMS, 300, 0.01)
	// Interpolated 90th percentile of [100..500] lands between the last
	// two observations.
	checkFloatNear(t, "p90_ms", stats.P90MS, 460, 0.01)
	checkInt64Equal(t, "max_ms", stats.MaxMS, 500)
}

func TestGetLatencyStats_EmptyWindow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	stats, err := db.GetLatencyStats(context.Background(), 168)
	checkNoError(t, err)
	checkInt64Equal(t, "count", stats.Count, 0)
	checkFloatNear(t, "median_ms", stats.MedianMS, 0, 0.0001)
	checkInt64Equal(t, "max_ms", stats.MaxMS, 0)
}

func TestGetFlowSummaries(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	// Complete flow first, incomplete flow second; the listing orders by
	// most recent activity, so the incomplete flow comes back first.
	appendTestEvent(t, db, models.ChannelIngestionMessage, models.EventTypeInfo, "corr-complete")
	appendTestEvent(t, db, models.ChannelParsingSetup, models.EventTypeSuccess, "corr-complete")
	appendTestEvent(t, db, models.ChannelIngestionMessage, models.EventTypeInfo, "corr-incomplete")

	flows, err := db.GetFlowSummaries(context.Background(), 168, 10)
	checkNoError(t, err)
	checkSliceLen(t, "flows", len(flows), 2)

	byID := make(map[string]models.FlowSummary, len(flows))
	for _, flow := range flows {
		byID[flow.CorrelationID] = flow
	}

	complete := byID["corr-complete"]
	checkTrue(t, "complete flow", complete.Complete)
	checkInt64Equal(t, "complete event_count", complete.EventCount, 2)
	checkSliceLen(t, "complete channels", len(complete.Channels), 2)
	checkStringEqual(t, "first channel", complete.Channels[0], "ingestion:message")
	checkStringEqual(t, "second channel", complete.Channels[1], "parsing:setup")
	if complete.LastEventAt.Before(complete.StartedAt) {
		t.Errorf("last_event_at %v before started_at %v", complete.LastEventAt, complete.StartedAt)
	}

	incomplete := byID["corr-incomplete"]
	checkFalse(t, "incomplete flow", incomplete.Complete)
	checkInt64Equal(t, "incomplete event_count", incomplete.EventCount, 1)
}

func TestGetFlowSummaries_FailedParseCompletesFlow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	appendTestEvent(t, db, models.ChannelIngestionMessage, models.EventTypeInfo, "corr-f")
	appendTestEvent(t, db, models.ChannelParsingFailed, models.EventTypeError, "corr-f")

	flows, err := db.GetFlowSummaries(context.Background(), 168, 10)
	checkNoError(t, err)
	checkSliceLen(t, "flows", len(flows), 1)
	checkTrue(t, "failed parse still completes", flows[0].Complete)
}

func TestGetFlowSummaries_RespectsLimit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for i := 0; i < 5; i++ {
		appendTestEvent(t, db, models.ChannelIngestionMessage, models.EventTypeInfo, fmt.Sprintf("corr-%d", i))
	}

	flows, err := db.GetFlowSummaries(context.Background(), 168, 2)
	checkNoError(t, err)
	checkSliceLen(t, "flows", len(flows), 2)
}
