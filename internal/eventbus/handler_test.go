// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/tickerflow/internal/models"
)

func TestEventHandler_ProcessesPublishedEvents(t *testing.T) {
	bus := NewGoChannelBus(nil)
	defer bus.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count atomic.Int64
	seen := make(chan int64, 4)

	handler := NewEventHandler(bus, TopicEvents).
		Handle(func(_ context.Context, event *models.Event) error {
			count.Add(1)
			seen <- event.ID
			return nil
		})

	runDone := make(chan error, 1)
	go func() {
		runDone <- handler.Run(ctx)
	}()

	// Give the subscription time to register before publishing.
	time.Sleep(50 * time.Millisecond)

	for _, id := range []int64{1, 2, 3} {
		if err := bus.PublishEvent(ctx, testEvent(t, id)); err != nil {
			t.Fatalf("PublishEvent(%d) failed: %v", id, err)
		}
	}

	for want := int64(1); want <= 3; want++ {
		select {
		case got := <-seen:
			if got != want {
				t.Errorf("event %d delivered out of order, got id %d", want, got)
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for event %d", want)
		}
	}

	cancel()
	select {
	case err := <-runDone:
		// Cancellation either trips the context branch or closes the
		// subscription channel first; both are clean exits.
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want nil or context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop on cancellation")
	}

	if got := count.Load(); got != 3 {
		t.Errorf("handled = %d events, want 3", got)
	}
}

func TestEventHandler_RetriesNackedMessage(t *testing.T) {
	bus := NewGoChannelBus(nil)
	defer bus.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var attempts atomic.Int64
	done := make(chan struct{})

	handler := NewEventHandler(bus, TopicEvents).
		Handle(func(_ context.Context, event *models.Event) error {
			if attempts.Add(1) == 1 {
				return errors.New("transient failure")
			}
			close(done)
			return nil
		})

	go handler.Run(ctx) //nolint:errcheck

	time.Sleep(50 * time.Millisecond)
	if err := bus.PublishEvent(ctx, testEvent(t, 9)); err != nil {
		t.Fatalf("PublishEvent() failed: %v", err)
	}

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("nacked message was not redelivered")
	}

	if got := attempts.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestMessageHandler_NilHandlerAcksEverything(t *testing.T) {
	bus := NewGoChannelBus(nil)
	defer bus.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	handler := NewMessageHandler(bus, TopicEvents)

	go handler.Run(ctx) //nolint:errcheck

	time.Sleep(50 * time.Millisecond)

	// Both publishes complete; a stuck unacked first message would
	// wedge the second.
	for i := int64(1); i <= 2; i++ {
		if err := bus.PublishEvent(ctx, testEvent(t, i)); err != nil {
			t.Fatalf("PublishEvent(%d) failed: %v", i, err)
		}
	}
}
