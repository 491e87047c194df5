// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package eventbus

import (
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tickerflow/internal/config"
)

func testBreakerConfig() config.NATSConfig {
	return config.NATSConfig{
		BreakerMaxFailures: 3,
		BreakerOpenTimeout: 100 * time.Millisecond,
	}
}

func TestPublishBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewPublishBreaker(testBreakerConfig())

	if cb.State() != gobreaker.StateClosed {
		t.Fatalf("initial state = %v, want closed", cb.State())
	}

	boom := errors.New("broker down")
	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (any, error) { return nil, boom })
		if !errors.Is(err, boom) {
			t.Fatalf("failure %d: err = %v, want %v", i+1, err, boom)
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Errorf("state after threshold = %v, want open", cb.State())
	}

	// While open, calls are rejected without invoking the function.
	called := false
	_, err := cb.Execute(func() (any, error) {
		called = true
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
	if called {
		t.Error("function ran while breaker was open")
	}
}

func TestPublishBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewPublishBreaker(testBreakerConfig())
	boom := errors.New("broker down")

	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (any, error) { return nil, boom })
	}
	if _, err := cb.Execute(func() (any, error) { return nil, nil }); err != nil {
		t.Fatalf("success call failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (any, error) { return nil, boom })
	}

	if cb.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed after interleaved success", cb.State())
	}
}

func TestPublishBreaker_HalfOpensAfterTimeout(t *testing.T) {
	cb := NewPublishBreaker(testBreakerConfig())
	boom := errors.New("broker down")

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (any, error) { return nil, boom })
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}

	time.Sleep(150 * time.Millisecond)

	// First probe after the open timeout goes through.
	if _, err := cb.Execute(func() (any, error) { return nil, nil }); err != nil {
		t.Fatalf("probe call failed: %v", err)
	}
}
