// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package eventbus redistributes recorded events over a Watermill bus.
//
// The DuckDB event store is the system of record; the bus exists so live
// consumers (the websocket hub, external processors in NATS mode) see
// events without polling the store. Every append flows through the
// Recorder, which persists first and publishes second:
//
//	ingest / pipeline / api
//	        |
//	        v
//	  Recorder.AppendEvent
//	        |-- store.AppendEvent (DuckDB, source of truth)
//	        `-- Publisher.PublishEvent (best effort)
//	                |
//	                v
//	        topic events.recorded
//	       /                     \
//	  websocket hub        JetStream consumers
//	  (EventHandler)          (nats builds)
//
// Two transports implement Publisher and Subscriber:
//
//   - GoChannelBus: in-process Watermill channels, the default. No
//     durability; a message published with no subscriber is dropped,
//     which is fine because the store already has it.
//   - NATS JetStream (build with -tags=nats): embedded or external
//     server, durable stream, circuit-broken publishes. Builds without
//     the tag get constructors that return errors.
//
// Messages carry the serialized models.Event as payload and expose
// channel, event type, source, and correlation id as Watermill metadata
// so consumers can filter without deserializing.
package eventbus
