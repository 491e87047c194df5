// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package ingest

import (
	"time"

	"github.com/tomtom215/tickerflow/internal/models"
)

// computeFlags derives the audit flags for one message. Weekend and
// session checks read the platform timestamp on the trading-timezone
// clock; the backdating check compares UTC instants so mixed-zone
// inputs never skew the lag.
func (s *Stage) computeFlags(platformTS, storedAt time.Time) models.AuditFlags {
	local := platformTS.In(s.tradingLoc)
	weekday := local.Weekday()

	flags := models.AuditFlags{
		IsWeekend:   weekday == time.Saturday || weekday == time.Sunday,
		IsBackdated: storedAt.UTC().Sub(platformTS.UTC()) > s.backdateThreshold,
	}

	// Out-of-hours applies to weekdays only; weekends are already
	// flagged as such.
	if !flags.IsWeekend {
		minutes := local.Hour()*60 + local.Minute()
		flags.IsOutOfHours = minutes < s.sessionOpenMin || minutes > s.sessionCloseMin
	}

	return flags
}
