// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/metrics"
	"github.com/tomtom215/tickerflow/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown
	// path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was
	// exceeded, which may mean a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types pushed to connected clients.
const (
	MessageTypeEvent          = "event"
	MessageTypeSweepCompleted = "sweep_completed"
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
)

// Message is the envelope sent over each connection.
//
// channel routes event messages through per-client filters; it is not
// part of the wire format (the event payload carries its own channel).
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`

	channel string
}

// Hub maintains the set of active clients and broadcasts messages to
// them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub and blocks forever.
//
// Deprecated: Use RunWithContext for supervised operation.
func (h *Hub) Run() {
	for {
		// Lifecycle events first, so the client set is settled before
		// the next broadcast. Go's select picks randomly among ready
		// channels; the non-blocking pre-check imposes the priority.
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// RunWithContext starts the hub with context support for graceful
// shutdown. Designed for use under suture supervision: on cancellation
// all connected clients are closed and ctx.Err() is returned, so a
// supervisor restart never leaves orphaned connections.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Priority 1: shutdown.
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: client lifecycle.
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		// Priority 3: broadcasts, or block until anything arrives.
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("Websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("Websocket client disconnected")
}

// logGracefulShutdown closes all clients and logs the shutdown.
// ctx.Err() is not logged as an error: cancellation is the expected
// path and an error field would mislead anyone watching error logs.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("Websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.Canceled:
		return ShutdownReasonContextCanceled
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// broadcastToClients delivers a message to every connected client whose
// filter accepts it. Clients are walked in id order so delivery order
// is reproducible; a client whose send buffer is full is disconnected
// instead of stalling the loop.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		if !client.wants(message.channel) {
			continue
		}
		select {
		case client.send <- message:
			metrics.WSMessagesSent.Inc()
		default:
			metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
		logging.Warn().Int("removed", len(toRemove)).Msg("Dropped slow websocket clients")
	}
}

// closeAllClients closes every connection, in id order.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// BroadcastEvent pushes one recorded event to all clients subscribed
// to its channel.
func (h *Hub) BroadcastEvent(event *models.Event) {
	message := Message{
		Type:    MessageTypeEvent,
		Data:    event,
		channel: string(event.Channel),
	}

	select {
	case h.broadcast <- message:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_channel_full").Inc()
		logging.Warn().
			Int64("event_id", event.ID).
			Msg("Broadcast channel full, dropping event message")
	}
}

// BroadcastJSON sends an arbitrary typed message to all clients.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_channel_full").Inc()
		logging.Warn().Str("message_type", messageType).Msg("Broadcast channel full, dropping message")
	}
}

// SweepCompletedData is the payload of a sweep_completed message.
type SweepCompletedData struct {
	Timestamp       string `json:"timestamp"`
	MessagesParsed  int    `json:"messages_parsed"`
	MessagesFailed  int    `json:"messages_failed"`
	SweepDurationMs int64  `json:"sweep_duration_ms"`
}

// BroadcastSweepCompleted notifies all clients that a backlog sweep
// pass has finished.
func (h *Hub) BroadcastSweepCompleted(parsed, failed int, durationMs int64) {
	data := SweepCompletedData{
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		MessagesParsed:  parsed,
		MessagesFailed:  failed,
		SweepDurationMs: durationMs,
	}

	message := Message{
		Type: MessageTypeSweepCompleted,
		Data: data,
	}

	select {
	case h.broadcast <- message:
		logging.Debug().
			Int("clients", h.GetClientCount()).
			Int("parsed", parsed).
			Msg("Broadcast sweep_completed")
	default:
		metrics.WSErrors.WithLabelValues("broadcast_channel_full").Inc()
		logging.Warn().Msg("Broadcast channel full, dropping sweep_completed message")
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
