// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package config loads and validates application configuration.
//
// Configuration is layered with Koanf v2: built-in defaults, then an
// optional YAML file, then environment variables. Every knob has a
// default so a bare `tickerflow` invocation starts with an in-process
// event bus and a DuckDB file under /data.
//
// The loaded Config is immutable; components receive the sections they
// need at construction time.
package config
