// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package services

import (
	"context"
)

// ContextHub is the one method of *websocket.Hub this wrapper uses.
// The hub's run loop already blocks until cancellation and closes its
// clients on the way out, so no lifecycle translation is needed here.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService supervises the live-feed hub in the messaging
// layer. A hub crash drops every dashboard connection; supervision
// brings the loop back and clients reconnect on their own.
type WebSocketHubService struct {
	hub  ContextHub
	name string
}

// NewWebSocketHubService wraps hub for supervision.
func NewWebSocketHubService(hub ContextHub) *WebSocketHubService {
	return &WebSocketHubService{
		hub:  hub,
		name: "websocket-hub",
	}
}

// Serve implements suture.Service by delegating to the hub's own
// context-aware run loop.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	return w.hub.RunWithContext(ctx)
}

// String names the service in sutureslog output.
func (w *WebSocketHubService) String() string {
	return w.name
}
