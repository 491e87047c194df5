// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build nats

package main

import (
	"context"
	"testing"
	"time"
)

// Every lifecycle method on NATSComponents must tolerate a nil
// receiver and an empty bundle, because main wires the components
// unconditionally and InitNATS returns nil when NATS is disabled by
// config.
func TestNATSComponentsNilSafety(t *testing.T) {
	tests := []struct {
		name   string
		bundle *NATSComponents
	}{
		{"nil bundle", nil},
		{"empty bundle", &NATSComponents{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.bundle.Start(context.Background()); err != nil {
				t.Errorf("Start() = %v, want nil", err)
			}
			tt.bundle.Shutdown(context.Background())
			if tt.bundle.IsRunning() {
				t.Error("IsRunning() = true, want false")
			}
			if tt.bundle.EventPublisher() != nil {
				t.Error("EventPublisher() should be nil before InitNATS wiring")
			}
		})
	}
}

func TestNATSComponentsIsRunning(t *testing.T) {
	c := &NATSComponents{running: true}
	if !c.IsRunning() {
		t.Error("IsRunning() = false for a running bundle")
	}
}

// Shutdown on a running bundle must drain and return promptly; a
// blocked drain here would stall the whole supervisor tree stop.
func TestNATSComponentsShutdownDrains(t *testing.T) {
	c := &NATSComponents{
		running:          true,
		shutdownComplete: make(chan struct{}),
	}

	done := make(chan struct{})
	go func() {
		c.Shutdown(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return within 1s")
	}

	if c.IsRunning() {
		t.Error("bundle still running after Shutdown")
	}
}
