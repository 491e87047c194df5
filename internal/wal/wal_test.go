// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build wal

package wal

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/tickerflow/internal/config"
)

type testPayload struct {
	MessageID string `json:"message_id"`
	Value     int    `json:"value"`
}

func openTestWAL(t *testing.T) *BadgerWAL {
	t.Helper()

	cfg := config.WALConfig{
		Dir:           t.TempDir(),
		SyncWrites:    false,
		RetryInterval: 20 * time.Millisecond,
		MaxRetries:    3,
		GCInterval:    time.Minute,
	}

	w, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := w.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	})
	return w
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestWAL_WriteConfirmRoundTrip(t *testing.T) {
	w := openTestWAL(t)
	ctx := context.Background()

	entryID, err := w.Write(ctx, &testPayload{MessageID: "m1", Value: 42})
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if entryID == "" {
		t.Fatal("Write() returned empty entry id")
	}

	pending, err := w.GetPending(ctx)
	if err != nil {
		t.Fatalf("GetPending() failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	var decoded testPayload
	if err := pending[0].UnmarshalPayload(&decoded); err != nil {
		t.Fatalf("UnmarshalPayload() failed: %v", err)
	}
	if decoded.MessageID != "m1" || decoded.Value != 42 {
		t.Errorf("payload = %+v, want m1/42", decoded)
	}

	if err := w.Confirm(ctx, entryID); err != nil {
		t.Fatalf("Confirm() failed: %v", err)
	}

	pending, err = w.GetPending(ctx)
	if err != nil {
		t.Fatalf("GetPending() after confirm failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after confirm = %d, want 0", len(pending))
	}

	stats := w.Stats()
	if stats.TotalWrites != 1 || stats.TotalConfirms != 1 {
		t.Errorf("stats = %+v, want 1 write and 1 confirm", stats)
	}
	if stats.ConfirmedCount != 1 {
		t.Errorf("ConfirmedCount = %d, want 1", stats.ConfirmedCount)
	}
}

func TestWAL_WriteRejectsNil(t *testing.T) {
	w := openTestWAL(t)

	if _, err := w.Write(context.Background(), nil); !errors.Is(err, ErrNilEvent) {
		t.Errorf("err = %v, want ErrNilEvent", err)
	}
}

func TestWAL_ConfirmUnknownEntry(t *testing.T) {
	w := openTestWAL(t)

	err := w.Confirm(context.Background(), "no-such-entry")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("err = %v, want ErrEntryNotFound", err)
	}
	if err := w.Confirm(context.Background(), ""); !errors.Is(err, ErrEmptyEntryID) {
		t.Errorf("err = %v, want ErrEmptyEntryID", err)
	}
}

func TestWAL_UpdateAttemptTracksFailures(t *testing.T) {
	w := openTestWAL(t)
	ctx := context.Background()

	entryID, err := w.Write(ctx, &testPayload{MessageID: "m1"})
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := w.UpdateAttempt(ctx, entryID, "broker down"); err != nil {
			t.Fatalf("UpdateAttempt() failed: %v", err)
		}
	}

	pending, err := w.GetPending(ctx)
	if err != nil {
		t.Fatalf("GetPending() failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}
	if pending[0].Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", pending[0].Attempts)
	}
	if pending[0].LastError != "broker down" {
		t.Errorf("LastError = %q, want broker down", pending[0].LastError)
	}
	if pending[0].LastAttemptAt.IsZero() {
		t.Error("LastAttemptAt not recorded")
	}
}

func TestWAL_OperationsFailAfterClose(t *testing.T) {
	cfg := config.WALConfig{Dir: t.TempDir(), RetryInterval: time.Second, GCInterval: time.Minute}
	w, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if _, err := w.Write(context.Background(), &testPayload{}); !errors.Is(err, ErrWALClosed) {
		t.Errorf("Write err = %v, want ErrWALClosed", err)
	}
	if _, err := w.GetPending(context.Background()); !errors.Is(err, ErrWALClosed) {
		t.Errorf("GetPending err = %v, want ErrWALClosed", err)
	}
	// Close is idempotent.
	if err := w.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}

func TestRetryLoop_DeliversPendingEntries(t *testing.T) {
	w := openTestWAL(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := w.Write(ctx, &testPayload{Value: i}); err != nil {
			t.Fatalf("Write(%d) failed: %v", i, err)
		}
	}

	var published atomic.Int64
	loop := NewRetryLoop(w, PublisherFunc(func(_ context.Context, entry *Entry) error {
		published.Add(1)
		return nil
	}))

	loop.Start(ctx)
	defer loop.Stop()

	waitFor(t, 2*time.Second, func() bool {
		pending, err := w.GetPending(ctx)
		return err == nil && len(pending) == 0
	})

	if got := published.Load(); got != 3 {
		t.Errorf("published = %d, want 3", got)
	}
	if !loop.IsRunning() {
		t.Error("loop reported not running before Stop")
	}
}

func TestRetryLoop_DropsEntryAfterMaxRetries(t *testing.T) {
	w := openTestWAL(t) // MaxRetries 3
	ctx := context.Background()

	if _, err := w.Write(ctx, &testPayload{MessageID: "poison"}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	loop := NewRetryLoop(w, PublisherFunc(func(_ context.Context, entry *Entry) error {
		return errors.New("always fails")
	}))

	loop.Start(ctx)
	defer loop.Stop()

	// Three failing passes mark attempts; the fourth drops the entry.
	waitFor(t, 3*time.Second, func() bool {
		pending, err := w.GetPending(ctx)
		return err == nil && len(pending) == 0
	})
}

func TestRecover_RepublishesPending(t *testing.T) {
	w := openTestWAL(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := w.Write(ctx, &testPayload{Value: i}); err != nil {
			t.Fatalf("Write(%d) failed: %v", i, err)
		}
	}

	var published atomic.Int64
	result, err := Recover(ctx, w, PublisherFunc(func(_ context.Context, entry *Entry) error {
		published.Add(1)
		return nil
	}))
	if err != nil {
		t.Fatalf("Recover() failed: %v", err)
	}

	if result.TotalPending != 2 || result.Recovered != 2 || result.Failed != 0 {
		t.Errorf("result = %+v, want 2 pending, 2 recovered", result)
	}
	if published.Load() != 2 {
		t.Errorf("published = %d, want 2", published.Load())
	}

	pending, err := w.GetPending(ctx)
	if err != nil {
		t.Fatalf("GetPending() failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after recovery = %d, want 0", len(pending))
	}
}

func TestRecover_FailedEntriesStayPending(t *testing.T) {
	w := openTestWAL(t)
	ctx := context.Background()

	if _, err := w.Write(ctx, &testPayload{MessageID: "stuck"}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	result, err := Recover(ctx, w, PublisherFunc(func(_ context.Context, entry *Entry) error {
		return errors.New("broker still down")
	}))
	if err != nil {
		t.Fatalf("Recover() failed: %v", err)
	}
	if result.Failed != 1 || result.Recovered != 0 {
		t.Errorf("result = %+v, want 1 failed", result)
	}

	pending, err := w.GetPending(ctx)
	if err != nil {
		t.Fatalf("GetPending() failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1 for the retry loop", len(pending))
	}
	if pending[0].Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", pending[0].Attempts)
	}
}

func TestCompactor_RemovesConfirmedEntries(t *testing.T) {
	w := openTestWAL(t)
	ctx := context.Background()

	var confirmed []string
	for i := 0; i < 3; i++ {
		id, err := w.Write(ctx, &testPayload{Value: i})
		if err != nil {
			t.Fatalf("Write(%d) failed: %v", i, err)
		}
		confirmed = append(confirmed, id)
	}
	keptID, err := w.Write(ctx, &testPayload{MessageID: "pending"})
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	for _, id := range confirmed {
		if err := w.Confirm(ctx, id); err != nil {
			t.Fatalf("Confirm(%s) failed: %v", id, err)
		}
	}

	removed, err := NewCompactor(w).CompactOnce(ctx)
	if err != nil {
		t.Fatalf("CompactOnce() failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	stats := w.Stats()
	if stats.ConfirmedCount != 0 {
		t.Errorf("ConfirmedCount after compaction = %d, want 0", stats.ConfirmedCount)
	}

	pending, err := w.GetPending(ctx)
	if err != nil {
		t.Fatalf("GetPending() failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != keptID {
		t.Errorf("pending entry lost by compaction")
	}
}
