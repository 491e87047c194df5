// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package database

import (
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/tickerflow/internal/logging"
)

// ErrNotFound is returned when a lookup targets a row that does not
// exist. Callers distinguish it from infrastructure failures with
// errors.Is.
var ErrNotFound = errors.New("not found")

// StorageError wraps an underlying database failure with the operation
// that hit it. Validation errors never become StorageErrors; they are
// rejected before a query runs.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageError wraps err as a StorageError for op. Returns nil for nil.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// closeWithLog closes a resource and logs any error. Use this for
// cleanup operations where errors should be acknowledged but not fail
// the operation.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error. Use
// this for cleanup in error paths where Close() errors are not
// actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
