// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build !nats

package main

import (
	"github.com/tomtom215/tickerflow/internal/supervisor"
)

// AddNATSToSupervisor does nothing in builds without the nats tag;
// main calls it unconditionally and the stub InitNATS already returned
// a nil bundle.
func AddNATSToSupervisor(_ *supervisor.SupervisorTree, _ *NATSComponents) {}
