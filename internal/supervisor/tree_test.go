// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// testLogger returns an slog logger that stays quiet below error level
// so restart churn in failure tests does not flood the output.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewSupervisorTree(t *testing.T) {
	t.Run("builds three layers under one root", func(t *testing.T) {
		tree, err := NewSupervisorTree(testLogger(t), TreeConfig{
			FailureThreshold: 5,
			FailureBackoff:   time.Second,
			ShutdownTimeout:  10 * time.Second,
		})
		if err != nil {
			t.Fatalf("NewSupervisorTree: %v", err)
		}
		if tree.Root() == nil {
			t.Fatal("root supervisor is nil")
		}
		if tree.data == nil || tree.messaging == nil || tree.api == nil {
			t.Error("expected all three layer supervisors")
		}
	})

	t.Run("zero config gets suture defaults", func(t *testing.T) {
		tree, err := NewSupervisorTree(testLogger(t), TreeConfig{})
		if err != nil {
			t.Fatalf("NewSupervisorTree: %v", err)
		}

		got, want := tree.config, DefaultTreeConfig()
		if got != want {
			t.Errorf("config = %+v, want defaults %+v", got, want)
		}
	})

	t.Run("nil logger is rejected", func(t *testing.T) {
		if _, err := NewSupervisorTree(nil, TreeConfig{}); err == nil {
			t.Error("expected an error for nil logger")
		}
	})
}

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()

	if cfg.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %f, want 5.0", cfg.FailureThreshold)
	}
	if cfg.FailureDecay != 30.0 {
		t.Errorf("FailureDecay = %f, want 30.0", cfg.FailureDecay)
	}
	if cfg.FailureBackoff != 15*time.Second {
		t.Errorf("FailureBackoff = %v, want 15s", cfg.FailureBackoff)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
}

func TestTreeLifecycle(t *testing.T) {
	t.Run("services in every layer run and stop with the tree", func(t *testing.T) {
		tree, err := NewSupervisorTree(testLogger(t), TreeConfig{
			FailureBackoff:  100 * time.Millisecond,
			ShutdownTimeout: time.Second,
		})
		if err != nil {
			t.Fatalf("NewSupervisorTree: %v", err)
		}

		layers := map[string]*MockService{
			"data":      NewMockService("mock-data"),
			"messaging": NewMockService("mock-messaging"),
			"api":       NewMockService("mock-api"),
		}
		tree.AddDataService(layers["data"])
		tree.AddMessagingService(layers["messaging"])
		tree.AddAPIService(layers["api"])

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		errCh := tree.ServeBackground(ctx)

		waitForStart(t, layers)

		cancel()
		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Errorf("tree stopped with %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("tree did not shut down in time")
		}
	})

	t.Run("ServeBackground yields the terminal error", func(t *testing.T) {
		tree, err := NewSupervisorTree(testLogger(t), TreeConfig{ShutdownTimeout: time.Second})
		if err != nil {
			t.Fatalf("NewSupervisorTree: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		select {
		case err := <-tree.ServeBackground(ctx):
			if err != nil && !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("terminal error = %v", err)
			}
		case <-time.After(time.Second):
			t.Error("no terminal error delivered")
		}
	})
}

// waitForStart polls until every mock has served at least once. Polling
// keeps the tests stable on loaded CI machines.
func waitForStart(t *testing.T, svcs map[string]*MockService) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		started := 0
		for _, svc := range svcs {
			if svc.StartCount() >= 1 {
				started++
			}
		}
		if started == len(svcs) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	for name, svc := range svcs {
		if svc.StartCount() == 0 {
			t.Errorf("%s service never started", name)
		}
	}
}

func TestLayerIsolation(t *testing.T) {
	t.Run("messaging crash loop leaves other layers running", func(t *testing.T) {
		tree, err := NewSupervisorTree(testLogger(t), TreeConfig{
			FailureThreshold: 10,
			FailureBackoff:   10 * time.Millisecond,
			ShutdownTimeout:  time.Second,
		})
		if err != nil {
			t.Fatalf("NewSupervisorTree: %v", err)
		}

		crashing := NewMockService("crashing-feed")
		crashing.SetFailCount(2)
		data := NewMockService("wal-loop")
		api := NewMockService("http-server")

		tree.AddMessagingService(crashing)
		tree.AddDataService(data)
		tree.AddAPIService(api)

		ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
		defer cancel()
		go tree.Serve(ctx)
		time.Sleep(300 * time.Millisecond)

		if crashing.StartCount() < 3 {
			t.Errorf("crashing service started %d times, want at least 3", crashing.StartCount())
		}
		if data.StartCount() != 1 {
			t.Errorf("data service started %d times, want exactly 1", data.StartCount())
		}
		if api.StartCount() != 1 {
			t.Errorf("api service started %d times, want exactly 1", api.StartCount())
		}
	})

	t.Run("tree honors ErrDoNotRestart", func(t *testing.T) {
		tree, err := NewSupervisorTree(testLogger(t), TreeConfig{
			FailureBackoff:  10 * time.Millisecond,
			ShutdownTimeout: time.Second,
		})
		if err != nil {
			t.Fatalf("NewSupervisorTree: %v", err)
		}

		oneShot := NewMockService("one-shot")
		oneShot.SetError(suture.ErrDoNotRestart)
		tree.AddAPIService(oneShot)

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		go tree.Serve(ctx)
		time.Sleep(150 * time.Millisecond)

		if got := oneShot.StartCount(); got != 1 {
			t.Errorf("one-shot service started %d times, want exactly 1", got)
		}
	})
}
