// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

/*
Package main is the entry point for the Tickerflow server application.

Tickerflow is a trading chat event correlation and setup extraction
service. It ingests free-text feed messages, extracts structured trading
setups (ticker, type, price level, trading date), and records every
processing step as a correlated event so operators can reconstruct the
full journey of any message through the system.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("tickerflow")
	├── DataSupervisor ("data-layer")
	│   └── WAL retry loop + compactor (optional, -tags wal,nats)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (live event feed)
	│   ├── Event Feed (in-process bus consumer, default build)
	│   ├── Backlog Sweeper (parses stored-but-unparsed messages)
	│   └── NATS components (optional, -tags nats)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (REST API + WebSocket upgrade)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB event store, message store, and setups
 4. Event Bus: JetStream (-tags nats) or in-process Go channel bus
 5. Recorder: persist-first event append with best-effort redistribution
 6. Pipeline: ingestion stage, setup parser, correlation tracer
 7. Supervisor Tree: Suture v4 process supervision
 8. HTTP Server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=8480               # HTTP server port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Storage
	DUCKDB_PATH=tickerflow.db

	# Parsing policy
	PARSER_DUPLICATE_POLICY=replace     # replace, skip, or allow
	TRADING_TIMEZONE=America/New_York

	# Event redistribution (requires -tags nats)
	NATS_ENABLED=false
	NATS_EMBEDDED=true
	NATS_STORE_DIR=/data/jetstream

	# Publish durability (requires -tags wal,nats)
	WAL_ENABLED=false
	WAL_DIR=/data/wal

# Build Tags

Optional build tags enable additional functionality:

	go build ./cmd/server                    # Standard build, in-process bus
	go build -tags nats ./cmd/server         # Enable NATS JetStream events
	go build -tags "wal,nats" ./cmd/server   # Add BadgerDB publish durability

Build tags affect supervisor tree composition:
  - nats: Adds NATSComponentsService to messaging layer
  - wal (with nats): Adds WALRetryLoopService and WALCompactorService to data layer

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Waits for in-flight requests (10s timeout)
 3. Stops the backlog sweeper mid-batch if needed
 4. Drains the event bus and closes NATS components
 5. Flushes pending WAL writes and closes BadgerDB
 6. Closes the database and reports any services that failed to stop

# Usage Examples

Development (in-process bus, console logging):

	export LOG_FORMAT=console
	go run ./cmd/server

Production with JetStream redistribution and durability:

	export NATS_ENABLED=true
	export NATS_EMBEDDED=true
	export WAL_ENABLED=true
	./tickerflow   # built with -tags wal,nats

# API Documentation

Swagger documentation is available at /swagger/index.html when enabled
via ENABLE_SWAGGER=true. The API groups:

  - Messages: ingestion input for chat-platform collectors
  - Events: append API, filtered listing, statistics, live WebSocket feed
  - Flows: correlation timelines with completeness classification
  - Setups: parsed setup listing with ticker and date filters
  - Statistics: parsing outcomes, audit flags, latency, health verdict
  - Core: health probes for orchestrators

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/pipeline: Message processing orchestration
  - internal/api: HTTP handlers and routing
  - internal/eventbus: Event recording and redistribution
*/
package main
