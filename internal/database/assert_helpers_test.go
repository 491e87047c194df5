// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package database

import "testing"

// Test assertion helpers with "check" prefix to avoid conflicts with
// existing helpers. Using t.Helper() ensures error messages point to
// the calling line.

// checkNoError fails the test if err is not nil
func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// checkError fails the test if err is nil
func checkError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// checkStringEqual checks that got equals want
func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

// checkInt64Equal checks that got equals want
func checkInt64Equal(t *testing.T, fieldName string, got, want int64) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

// checkIntEqual checks that got equals want
func checkIntEqual(t *testing.T, fieldName string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

// checkTrue checks that the condition holds
func checkTrue(t *testing.T, fieldName string, value bool) {
	t.Helper()
	if !value {
		t.Errorf("%s should be true", fieldName)
	}
}

// checkFalse checks that the condition does not hold
func checkFalse(t *testing.T, fieldName string, value bool) {
	t.Helper()
	if value {
		t.Errorf("%s should be false", fieldName)
	}
}

// checkFloatNear checks that got is within epsilon of want
func checkFloatNear(t *testing.T, fieldName string, got, want, epsilon float64) {
	t.Helper()
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	if diff > epsilon {
		t.Errorf("%s: expected %v (±%v), got %v", fieldName, want, epsilon, got)
	}
}

// checkSliceLen checks that slice length equals want
func checkSliceLen(t *testing.T, name string, length, want int) {
	t.Helper()
	if length != want {
		t.Errorf("%s: expected %d items, got %d", name, want, length)
	}
}

// checkSliceNotEmpty checks that slice length > 0
func checkSliceNotEmpty(t *testing.T, name string, length int) {
	t.Helper()
	if length == 0 {
		t.Errorf("%s should not be empty", name)
	}
}
