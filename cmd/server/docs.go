// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package main provides the Tickerflow HTTP server
//
// Tickerflow API ingests trading-chat messages, extracts structured
// setups, and exposes the correlated event log for audit and dashboards.
//
// @title Tickerflow API
// @version 1.0
// @description Event correlation and setup extraction for trading-chat messages
// @description
// @description ## Features
// @description
// @description - **Append-Only Event Log**: Every processing step recorded with correlation IDs
// @description - **Deduplicating Ingestion**: Idempotent by platform message ID, with audit flags
// @description - **Heuristic Setup Parser**: Tickers, setup types, price levels, trading dates
// @description - **Flow Reconstruction**: Complete per-message timelines with completeness verdicts
// @description - **Real-time Updates**: WebSocket live feed of recorded events
// @description - **Pipeline Statistics**: Parse outcomes, anomaly flags, latency quantiles, health verdict
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address, with
// @description separate buckets for writes, statistics, and the live feed.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-06-06T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/tickerflow/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8480
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Service health probes for orchestrators and monitoring
//
// @tag.name Messages
// @tag.description Ingestion input for chat-platform collectors
//
// @tag.name Events
// @tag.description Append API, filtered listing, statistics, and the live WebSocket feed
//
// @tag.name Flows
// @tag.description Correlation flow timelines with completeness classification
//
// @tag.name Setups
// @tag.description Parsed trading setups with ticker and date filters
//
// @tag.name Statistics
// @tag.description Rolling pipeline statistics: parsing, audit, latency, health
package main
