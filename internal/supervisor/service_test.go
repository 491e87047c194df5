// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// The tree tests lean on MockService to script failures; these pin
// down its contract so a scripting bug doesn't masquerade as a
// supervision bug.
func TestMockServiceContract(t *testing.T) {
	var _ suture.Service = (*MockService)(nil)

	t.Run("blocks until canceled and counts the start", func(t *testing.T) {
		svc := NewMockService("sweeper")
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve returned %v, want context.DeadlineExceeded", err)
		}
		if got := svc.StartCount(); got != 1 {
			t.Errorf("StartCount = %d, want 1", got)
		}
	})

	t.Run("queued failures burn off in order", func(t *testing.T) {
		svc := NewMockService("flaky-feed")
		svc.SetFailCount(2)

		for i := 0; i < 2; i++ {
			if err := svc.Serve(context.Background()); err == nil {
				t.Fatalf("call %d should have failed", i+1)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("call after failures burned off returned %v, want deadline", err)
		}
		if got := svc.StartCount(); got != 3 {
			t.Errorf("StartCount = %d, want 3", got)
		}
	})

	t.Run("suture sentinels pass through SetError", func(t *testing.T) {
		svc := NewMockService("one-shot")
		svc.SetError(suture.ErrDoNotRestart)

		if err := svc.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
			t.Errorf("Serve returned %v, want ErrDoNotRestart", err)
		}
	})

	t.Run("String carries the scripted name", func(t *testing.T) {
		if got := NewMockService("wal-compactor").String(); got != "wal-compactor" {
			t.Errorf("String() = %q, want %q", got, "wal-compactor")
		}
	})
}

// Restart pacing under a bare suture supervisor, as a baseline for the
// tree tests: two scripted crashes must produce at least three starts
// once the backoff window has passed.
func TestMockServiceRestartsUnderSupervision(t *testing.T) {
	svc := NewMockService("crashy-sweeper")
	svc.SetFailCount(2)

	sup := suture.New("baseline", suture.Spec{
		FailureThreshold: 10,
		FailureDecay:     1,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Serve(ctx)

	deadline := time.After(2 * time.Second)
	for svc.StartCount() < 3 {
		select {
		case <-deadline:
			t.Fatalf("StartCount = %d after 2s, want >= 3", svc.StartCount())
		case <-time.After(10 * time.Millisecond):
		}
	}
}
