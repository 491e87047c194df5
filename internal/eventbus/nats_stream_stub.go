// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build !nats

package eventbus

// StreamName is the JetStream stream holding recorded events.
const StreamName = "TICKERFLOW_EVENTS"
