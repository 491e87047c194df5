// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build nats

// This file provides NATS integration with the supervisor tree.
// It is only compiled when the "nats" build tag is enabled.
//
// Build with NATS support:
//
//	go build -tags nats -o tickerflow ./cmd/server

package main

import (
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/supervisor"
	"github.com/tomtom215/tickerflow/internal/supervisor/services"
)

// AddNATSToSupervisor adds the NATS components service to the supervisor
// tree's messaging layer for automatic lifecycle management, and the WAL
// retry loop and compactor to the data layer when the wal tag is on.
//
// The NATS components include:
//   - Embedded NATS server (if configured)
//   - JetStream publisher for event redistribution
//   - Live feed subscriber for WebSocket client notifications
//   - WAL components for publish durability (if WAL build tag enabled)
//
// When added to the supervisor tree:
//   - Start() is called when the supervisor starts
//   - Shutdown() is called when the supervisor stops
//   - The service is automatically restarted on failure
//
// This function is a no-op if natsComponents is nil (NATS disabled via config).
//
// Example usage in main.go:
//
//	natsComponents, _ := InitNATS(cfg, wsHub)
//	AddNATSToSupervisor(tree, natsComponents)
func AddNATSToSupervisor(tree *supervisor.SupervisorTree, natsComponents *NATSComponents) {
	if natsComponents == nil {
		return
	}
	tree.AddMessagingService(services.NewNATSComponentsService(natsComponents))
	logging.Info().Msg("NATS components added to supervisor tree (messaging layer)")

	natsComponents.walComponents.AddToSupervisor(tree)
}
