// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// MockService is a controllable suture.Service for exercising the tree:
// it can fail a fixed number of times before settling, return a fixed
// error, or just block until its context is canceled.
type MockService struct {
	name         string
	startCount   atomic.Int32
	failuresLeft atomic.Int32

	mu  sync.Mutex
	err error
}

func NewMockService(name string) *MockService {
	return &MockService{name: name}
}

// Serve counts the start, burns one queued failure if any remain, then
// either returns the configured error or blocks until ctx is canceled.
func (m *MockService) Serve(ctx context.Context) error {
	m.startCount.Add(1)

	if m.failuresLeft.Add(-1) >= 0 {
		return errors.New("simulated failure")
	}

	m.mu.Lock()
	err := m.err
	m.mu.Unlock()
	if err != nil {
		return err
	}

	<-ctx.Done()
	return ctx.Err()
}

// SetError makes every subsequent Serve return err immediately. Suture
// sentinel errors (ErrDoNotRestart, ErrTerminateSupervisorTree) pass
// through untouched.
func (m *MockService) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetFailCount queues n failures; the n+1th Serve call runs normally.
func (m *MockService) SetFailCount(n int) {
	m.failuresLeft.Store(int32(n))
}

// StartCount reports how many times Serve was entered.
func (m *MockService) StartCount() int32 {
	return m.startCount.Load()
}

// String names the service in suture's logs.
func (m *MockService) String() string {
	return m.name
}
