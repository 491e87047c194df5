// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package main is the entry point for the Tickerflow server application.
//
// Tickerflow ingests free-text trading-chat messages, extracts structured
// setups (ticker, type, price level, trading date), and records every
// processing step as a correlated event so operators can reconstruct the
// full journey of any message.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Database: Initialize DuckDB event store, message store, and setups
//  3. Event Bus: NATS JetStream (-tags nats) or in-process Go channel bus
//  4. Pipeline: Ingestion stage, setup parser, correlation tracer, health aggregator
//  5. WebSocket Hub: Live event feed to connected clients
//  6. Backlog Sweeper: Periodic parse of stored-but-unparsed messages
//  7. HTTP Server: REST API with Swagger documentation
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (see internal/config for the mapping)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Build Tags
//
// Optional build tags enable additional functionality:
//
//	go build -tags "nats" ./cmd/server      # Enable NATS JetStream
//	go build -tags "wal" ./cmd/server       # Enable BadgerDB WAL
//	go build -tags "nats,wal" ./cmd/server  # Enable both
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Stops the sweeper and drains the event bus
//   - Closes the WAL and database connections
//
// # Example Usage
//
// Development (in-process bus, console logging):
//
//	export LOG_FORMAT=console
//	./tickerflow
//
// Production with JetStream redistribution:
//
//	export NATS_ENABLED=true
//	export NATS_EMBEDDED=true
//	export NATS_STORE_DIR=/data/jetstream
//	./tickerflow   # built with -tags nats,wal
//
// Docker:
//
//	docker run -d \
//	  -e DUCKDB_PATH=/data/tickerflow.db \
//	  -p 8480:8480 \
//	  ghcr.io/tomtom215/tickerflow
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/tickerflow/docs" // Import generated swagger docs
	"github.com/tomtom215/tickerflow/internal/api"
	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/database"
	"github.com/tomtom215/tickerflow/internal/eventbus"
	"github.com/tomtom215/tickerflow/internal/health"
	"github.com/tomtom215/tickerflow/internal/ingest"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/models"
	"github.com/tomtom215/tickerflow/internal/parser"
	"github.com/tomtom215/tickerflow/internal/pipeline"
	"github.com/tomtom215/tickerflow/internal/supervisor"
	"github.com/tomtom215/tickerflow/internal/supervisor/services"
	"github.com/tomtom215/tickerflow/internal/trace"
	ws "github.com/tomtom215/tickerflow/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Tickerflow with supervisor tree")

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Str("duplicate_policy", cfg.Parser.DuplicatePolicy).
		Str("trading_timezone", cfg.Trading.Timezone).
		Msg("Configuration loaded")

	// Initialize DuckDB event store
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Create WebSocket hub for the live event feed (before the bus, so
	// subscribers can broadcast into it)
	wsHub := ws.NewHub()

	// Initialize NATS event redistribution (optional - requires build with -tags nats)
	// Returns nil components when NATS is disabled via config or build tags.
	natsComponents, err := InitNATS(cfg, wsHub)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize NATS")
	}

	// Add NATS to supervisor tree (if enabled)
	// Note: NATS components are started/managed by supervisor, not manually
	AddNATSToSupervisor(tree, natsComponents)

	// Select the transport recorded events redistribute over: JetStream
	// when NATS is up, otherwise the in-process Go channel bus with a
	// supervised feed draining it into the WebSocket hub.
	var busPublisher eventbus.Publisher
	if pub := natsComponents.EventPublisher(); pub != nil {
		busPublisher = pub
		logging.Info().Msg("Recorded events redistribute over NATS JetStream")
	} else {
		bus := eventbus.NewGoChannelBus(nil)
		busPublisher = bus

		feed := eventbus.NewEventHandler(bus, eventbus.TopicEvents).
			Handle(func(_ context.Context, event *models.Event) error {
				wsHub.BroadcastEvent(event)
				return nil
			})
		tree.AddMessagingService(services.NewEventFeedService(feed))
		logging.Info().Msg("Recorded events redistribute over the in-process bus")
	}

	// The recorder persists first, then publishes best-effort
	recorder := eventbus.NewRecorder(db, busPublisher)

	// Assemble the processing pipeline: ingest -> parse -> persist
	ingestStage, err := ingest.New(db, cfg.Ingest, cfg.Trading)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create ingestion stage")
	}

	setupParser := parser.New(&cfg.Parser)

	pipe, err := pipeline.New(ingestStage, setupParser, db, recorder, cfg.Parser, cfg.Trading)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create pipeline")
	}
	logging.Info().Msg("Processing pipeline assembled")

	tracer := trace.New(db)
	healthAgg := health.New(db, cfg.Health)

	// Backlog sweeper parses stored messages the live path never
	// finished; sweep completions are broadcast to dashboards.
	sweeper := pipeline.NewSweeper(pipe, cfg.Pipeline)
	sweeper.SetNotifier(wsHub)

	handler := api.NewHandler(db, pipe, tracer, healthAgg, recorder, cfg, wsHub)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Messaging layer services
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(services.NewSweeperService(sweeper))
	logging.Info().Msg("WebSocket hub and backlog sweeper added to supervisor tree")

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
