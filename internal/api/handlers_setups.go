// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/tickerflow/internal/database"
	"github.com/tomtom215/tickerflow/internal/models"
)

// Setups handles parsed setup listing requests
//
// @Summary List parsed trading setups
// @Description Returns extracted setups filtered by ticker, setup type and trading date, newest trading date first, with the unpaged total for pagination.
// @Tags Setups
// @Accept json
// @Produce json
// @Param ticker query string false "Filter by ticker symbol (case-insensitive)"
// @Param setup_type query string false "Filter by setup classification"
// @Param trading_date query string false "Filter by trading date (YYYY-MM-DD)"
// @Param limit query int false "Results per page (1-1000)"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} models.APIResponse{data=models.SetupsResponse} "Setups retrieved"
// @Failure 400 {object} models.APIResponse "Validation failed"
// @Router /setups [get]
func (h *Handler) Setups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	start := time.Now()
	q := r.URL.Query()

	// Tickers are stored uppercase; normalize before validating so
	// lowercase queries match instead of failing the pattern.
	req := SetupsRequest{
		Ticker:      strings.ToUpper(strings.TrimSpace(q.Get("ticker"))),
		SetupType:   q.Get("setup_type"),
		TradingDate: q.Get("trading_date"),
		Limit:       getIntParam(r, "limit", h.defaultPageSize()),
		Offset:      getIntParam(r, "offset", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	filter := database.SetupFilter{
		Ticker:      req.Ticker,
		SetupType:   models.SetupType(req.SetupType),
		TradingDate: req.TradingDate,
		Limit:       req.Limit,
		Offset:      req.Offset,
	}

	setups, err := h.store.ListSetups(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to list setups", err)
		return
	}
	if setups == nil {
		setups = []models.ParsedSetup{}
	}

	total, err := h.store.CountSetups(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to count setups", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.SetupsResponse{
			Setups: setups,
			Total:  total,
			Limit:  req.Limit,
			Offset: req.Offset,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
