// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build !wal || !nats

package eventbus

// DurablePublisher stub for builds without WAL-backed publishing.
// When the wal tag is absent, use NATSPublisher or GoChannelBus
// directly; the constructor is only provided in wal && nats builds.
type DurablePublisher struct{}
