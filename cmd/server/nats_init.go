// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build nats

package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/eventbus"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/models"
	ws "github.com/tomtom215/tickerflow/internal/websocket"
)

// NATSComponents holds all NATS-related components for lifecycle
// management.
type NATSComponents struct {
	server    *eventbus.EmbeddedServer
	natsConn  *natsgo.Conn
	streamMgr *eventbus.StreamManager
	publisher *eventbus.NATSPublisher

	// Live feed: durable JetStream consumer draining recorded events
	// into the WebSocket hub
	subscriber *eventbus.NATSSubscriber
	feed       *eventbus.EventHandler

	// WAL durability for publishes (optional, requires -tags wal,nats)
	walComponents *WALComponents

	// Publisher handed to the event recorder: the WAL-backed one when
	// durability is enabled, the direct JetStream publisher otherwise
	eventPublisher eventbus.Publisher

	feedCancel context.CancelFunc
	feedDone   chan struct{}

	shutdownComplete chan struct{}
	mu               sync.Mutex
	running          bool
}

// InitNATS initializes JetStream event redistribution when
// NATS_ENABLED=true.
//
// Parameters:
//   - cfg: application configuration with NATS settings
//   - wsHub: WebSocket hub receiving the live event feed
//
// The returned components are started and stopped by the supervisor
// tree through AddNATSToSupervisor; callers wire EventPublisher() into
// the event recorder.
func InitNATS(cfg *config.Config, wsHub *ws.Hub) (*NATSComponents, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS event redistribution disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	logging.Info().Msg("Initializing NATS event redistribution...")

	components := &NATSComponents{
		shutdownComplete: make(chan struct{}),
	}

	// Step 1: Embedded NATS server if enabled. The resolved client URL
	// feeds the publisher and subscriber configs below.
	natsCfg := cfg.NATS
	if natsCfg.EmbeddedServer {
		server, err := eventbus.NewEmbeddedServer(natsCfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		components.server = server
		natsCfg.URL = server.ClientURL()
		logging.Info().
			Str("url", natsCfg.URL).
			Bool("jetstream", server.JetStreamEnabled()).
			Msg("Embedded NATS server started")
	} else {
		logging.Info().Str("url", natsCfg.URL).Msg("Using external NATS server")
	}

	// Step 2: Connect and provision the events stream
	nc, err := natsgo.Connect(natsCfg.URL,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	components.natsConn = nc
	logging.Info().Msg("NATS connection established")

	streamMgr, err := eventbus.NewStreamManager(nc, natsCfg)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, fmt.Errorf("create stream manager: %w", err)
	}
	components.streamMgr = streamMgr

	ctx := context.Background()
	stream, err := streamMgr.EnsureStream(ctx)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, fmt.Errorf("ensure stream exists: %w", err)
	}
	streamInfo := stream.CachedInfo()
	logging.Info().
		Str("name", streamInfo.Config.Name).
		Strs("subjects", streamInfo.Config.Subjects).
		Dur("max_age", streamInfo.Config.MaxAge).
		Msg("JetStream stream ready")

	// Step 3: Publisher with circuit breaker protection
	publisher, err := eventbus.NewNATSPublisher(natsCfg, nil)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, fmt.Errorf("create publisher: %w", err)
	}
	publisher.SetCircuitBreaker(eventbus.NewPublishBreaker(natsCfg))
	components.publisher = publisher
	logging.Info().Msg("NATS publisher created")

	// Step 4: WAL wrap for publish durability (requires -tags wal,nats).
	// Pending entries from a previous run are re-published here, before
	// anything new is recorded.
	walComponents, err := InitWAL(ctx, cfg, publisher)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, fmt.Errorf("initialize WAL: %w", err)
	}
	components.walComponents = walComponents

	components.eventPublisher = publisher
	if walPub := walComponents.Publisher(); walPub != nil {
		components.eventPublisher = walPub
		logging.Info().Msg("Using WAL-backed event publisher for durability")
	}

	// Step 5: Live feed subscriber for the WebSocket hub. The durable
	// consumer resumes after restarts; the hub drops slow clients.
	subscriber, err := eventbus.NewNATSSubscriber(natsCfg, nil)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	components.subscriber = subscriber

	components.feed = eventbus.NewEventHandler(subscriber, eventbus.TopicEvents).
		Handle(func(_ context.Context, event *models.Event) error {
			wsHub.BroadcastEvent(event)
			return nil
		})
	logging.Info().Msg("Live feed subscriber created")

	components.mu.Lock()
	components.running = true
	components.mu.Unlock()

	logging.Info().Msg("NATS event redistribution initialized successfully")
	return components, nil
}

// Start launches the live feed consumer. Called by the supervisor's
// NATSComponentsService after InitNATS has wired the components.
func (c *NATSComponents) Start(ctx context.Context) error {
	if c == nil || c.feed == nil {
		return nil
	}

	c.mu.Lock()
	if c.feedDone != nil {
		c.mu.Unlock()
		return nil
	}
	feedCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.feedCancel = cancel
	c.feedDone = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		if err := c.feed.Run(feedCtx); err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("NATS live feed stopped")
		}
	}()

	logging.Info().Msg("NATS live feed started")
	return nil
}

// Shutdown gracefully stops all NATS components.
//
// Shutdown order matters for clean termination:
//  1. Stop the live feed consumer
//  2. Close the subscriber
//  3. Close the publisher
//  4. Shut down WAL components (blocks until retry passes finish)
//  5. Close the NATS connection
//  6. Shut down the embedded server last
func (c *NATSComponents) Shutdown(ctx context.Context) {
	if c == nil {
		return
	}

	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	logging.Info().Msg("Shutting down NATS components...")

	c.shutdownFeed()
	c.shutdownSubscriber()
	c.shutdownPublisher()
	c.shutdownWAL()
	c.shutdownConnection(ctx)

	close(c.shutdownComplete)
	logging.Info().Msg("NATS shutdown complete")
}

// shutdownFeed stops the live feed consumer and waits for it to exit.
func (c *NATSComponents) shutdownFeed() {
	c.mu.Lock()
	cancel := c.feedCancel
	done := c.feedDone
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	logging.Info().Msg("NATS live feed stopped")
}

// shutdownSubscriber closes the JetStream subscriber.
func (c *NATSComponents) shutdownSubscriber() {
	if c.subscriber == nil {
		return
	}
	if err := c.subscriber.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing subscriber")
	}
	logging.Info().Msg("Live feed subscriber closed")
}

// shutdownPublisher closes the NATS publisher.
func (c *NATSComponents) shutdownPublisher() {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing publisher")
	}
	logging.Info().Msg("Publisher closed")
}

// shutdownWAL stops WAL components (retry loop, compactor, BadgerDB).
func (c *NATSComponents) shutdownWAL() {
	if c.walComponents == nil {
		return
	}
	c.walComponents.Shutdown()
}

// shutdownConnection closes the NATS connection and embedded server.
func (c *NATSComponents) shutdownConnection(ctx context.Context) {
	if c.natsConn != nil {
		c.natsConn.Close()
		logging.Info().Msg("NATS connection closed")
	}
	if c.server != nil {
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("Error shutting down NATS server")
		}
		logging.Info().Msg("Embedded NATS server stopped")
	}
}

// IsRunning returns whether NATS components are active.
func (c *NATSComponents) IsRunning() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// EventPublisher returns the publisher the event recorder should use:
// the WAL-backed one when durability is enabled, the direct JetStream
// publisher otherwise. Returns nil if NATS is not initialized.
func (c *NATSComponents) EventPublisher() eventbus.Publisher {
	if c == nil {
		return nil
	}
	return c.eventPublisher
}
