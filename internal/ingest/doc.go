// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package ingest is the front door of the pipeline: it validates raw
// platform messages, stores them exactly once, computes audit flags and
// opens each message's correlation flow on the event log.
//
// Ingestion Flow:
//
//	RawMessage -> validate -> insert (dedup by message_id)
//	                             |
//	              first delivery | redelivery
//	                             v
//	          ingestion:message event        duplicate_skipped event
//	          (fresh correlation_id)         (original correlation_id)
//
// Deduplication rides on the messages primary key rather than a
// read-then-write check, so concurrent deliveries of the same
// message_id resolve to exactly one stored row with no race.
//
// Audit flags (weekend, out-of-hours, backdated) annotate but never
// block: a flagged message is stored normally and its ingestion event
// is recorded as a warning instead of info.
package ingest
