// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/models"
)

// testDBSemaphore limits concurrent database creation to prevent resource exhaustion in CI.
// When many tests run in parallel, too many concurrent DuckDB CGO calls can cause hangs.
// Setting to 1 fully serializes database creation to prevent resource contention.
var testDBSemaphore = make(chan struct{}, 1)

// testDBMutex serializes database creation for short periods to reduce contention.
var testDBMutex sync.Mutex

// setupTestDB creates a new in-memory test database with timeout protection.
// Uses a 120-second timeout to fail fast if DuckDB hangs during connection.
//
// Concurrency control:
// - Semaphore limits concurrent database operations to 1 (fully serialized)
// - Mutex provides additional safety for the New() call
// - The semaphore is held for the ENTIRE test lifecycle, not just DB creation,
//   and released via t.Cleanup() when the test completes
//
// DuckDB CGO calls can hang when multiple connections do concurrent operations
// under CI resource pressure, so only one test holds an active connection at
// any time.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Acquire semaphore to limit concurrency - blocks until available
	testDBSemaphore <- struct{}{}

	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
	}

	// Create database in a goroutine with timeout to prevent hangs
	type result struct {
		db  *DB
		err error
	}

	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		// NOTE: Semaphore is NOT released here - it's released by t.Cleanup
		// when the test completes, ensuring exclusive access throughout
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s (DuckDB may be under resource pressure)")
		return nil
	}
}

// testEventData returns a minimal valid event payload.
func testEventData() json.RawMessage {
	return json.RawMessage(`{"schema_version": 1, "note": "test"}`)
}

// appendTestEvent appends one event and returns it with its assigned id.
func appendTestEvent(t *testing.T, db *DB, channel models.Channel, eventType models.EventType, correlationID string) *models.Event {
	t.Helper()
	event := &models.Event{
		Channel:       channel,
		EventType:     eventType,
		Source:        "test",
		CorrelationID: correlationID,
		Data:          testEventData(),
	}
	checkNoError(t, db.AppendEvent(context.Background(), event))
	return event
}

// insertTestMessage stores one message with sane defaults and fails the
// test if the message_id already existed.
func insertTestMessage(t *testing.T, db *DB, messageID, correlationID string, storedAt time.Time) *models.Message {
	t.Helper()
	msg := &models.Message{
		MessageID:         messageID,
		ChannelRef:        "day-trading",
		AuthorID:          "trader1",
		Content:           "Watching AAPL for a breakout above 210",
		PlatformTimestamp: storedAt.Add(-2 * time.Second),
		StoredAt:          storedAt,
		CorrelationID:     correlationID,
		TimeToIngestMS:    2000,
	}
	inserted, err := db.InsertMessage(context.Background(), msg)
	checkNoError(t, err)
	if !inserted {
		t.Fatalf("message %s unexpectedly already existed", messageID)
	}
	return msg
}

// floatPtr returns a pointer to the given float
func floatPtr(f float64) *float64 {
	return &f
}

func testSetup(ticker, tradingDate, messageID string) models.ParsedSetup {
	return models.ParsedSetup{
		Ticker:          ticker,
		SetupType:       models.SetupTypeBreakout,
		PriceLevel:      floatPtr(210.0),
		TradingDate:     tradingDate,
		SourceMessageID: messageID,
		RawContext:      "AAPL breakout above 210",
		ContentLength:   38,
	}
}

func TestNew_InitializesEmptySchema(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	events, messages, setups, err := db.GetRecordCounts(context.Background())
	checkNoError(t, err)
	checkInt64Equal(t, "events", events, 0)
	checkInt64Equal(t, "messages", messages, 0)
	checkInt64Equal(t, "setups", setups, 0)
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	checkNoError(t, db.Ping(context.Background()))
}

func TestGetDatabasePath(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	checkStringEqual(t, "path", db.GetDatabasePath(), ":memory:")
}

func TestCheckpoint(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	appendTestEvent(t, db, models.ChannelSystem, models.EventTypeInfo, "")
	checkNoError(t, db.Checkpoint(context.Background()))
}

func TestCreateIndexes_ManualAfterSkip(t *testing.T) {
	// Hold the semaphore like setupTestDB; this test builds its own DB
	// with index creation deferred.
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:        ":memory:",
		MaxMemory:   "1GB",
		SkipIndexes: true,
	}

	testDBMutex.Lock()
	db, err := New(cfg)
	testDBMutex.Unlock()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	defer db.Close()

	// Writes and reads work without indexes, and the deferred creation
	// path succeeds when invoked explicitly.
	appendTestEvent(t, db, models.ChannelSystem, models.EventTypeInfo, "corr-skip")
	checkNoError(t, db.CreateIndexes())

	events, err := db.GetEventsByCorrelation(context.Background(), "corr-skip")
	checkNoError(t, err)
	checkSliceLen(t, "events", len(events), 1)
}

func TestGetRecordCounts_TracksInserts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	appendTestEvent(t, db, models.ChannelIngestionMessage, models.EventTypeInfo, "corr-1")
	insertTestMessage(t, db, "msg-1", "corr-1", now)
	_, err := db.SaveSetups(ctx, []models.ParsedSetup{testSetup("AAPL", "2025-06-06", "msg-1")}, models.PolicyAllow)
	checkNoError(t, err)

	events, messages, setups, err := db.GetRecordCounts(ctx)
	checkNoError(t, err)
	checkInt64Equal(t, "events", events, 1)
	checkInt64Equal(t, "messages", messages, 1)
	checkInt64Equal(t, "setups", setups, 1)
}
