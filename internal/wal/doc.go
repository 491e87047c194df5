// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package wal provides a BadgerDB write-ahead log for event publishes.
//
// In nats builds, every bus publish is journaled here first. Entries
// are confirmed after the broker accepts them; unconfirmed entries
// survive crashes and broker outages and are re-published by the
// background RetryLoop:
//
//	PublishEvent
//	    |
//	    v
//	Write (fsync)  -->  publish  -->  Confirm
//	    |                  |
//	    |              failure: entry stays pending
//	    v
//	RetryLoop (interval) re-publishes pending entries,
//	Compactor drops confirmed ones and runs Badger GC.
//
// One process owns a WAL directory. Recovery runs before the retry
// loop starts and the loop processes entries from a single goroutine,
// so entries never race between publishers.
//
// Builds without the wal tag get a NoOpWAL whose writes succeed
// without persisting, keeping call sites tag-free.
package wal
