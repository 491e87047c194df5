// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/metrics"
)

// SweepNotifier receives a notification after each sweep that handled
// messages. Satisfied by *websocket.Hub.
type SweepNotifier interface {
	BroadcastSweepCompleted(parsed, failed int, durationMs int64)
}

// Sweeper periodically parses stored messages the live path never
// finished: crash recovery, rows imported outside the API, and flows
// whose first parse attempt errored. Parsing during a sweep is paced by
// a rate limiter so a deep backlog cannot starve interactive queries.
type Sweeper struct {
	pipeline *Pipeline
	store    Store
	notifier SweepNotifier
	cfg      config.PipelineConfig
	limiter  *rate.Limiter
	logger   zerolog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSweeper builds a sweeper over the pipeline's parsing stage.
// Non-positive config values fall back to the defaults.
func NewSweeper(p *Pipeline, cfg config.PipelineConfig) *Sweeper {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 30 * time.Second
	}
	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = 100
	}
	if cfg.SweepRatePerSecond <= 0 {
		cfg.SweepRatePerSecond = 50
	}
	if cfg.SweepBurst <= 0 {
		cfg.SweepBurst = 10
	}

	return &Sweeper{
		pipeline: p,
		store:    p.store,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.SweepRatePerSecond), cfg.SweepBurst),
		logger:   logging.WithComponent("sweeper"),
	}
}

// SetNotifier wires the live-feed notification target. Optional; a nil
// notifier skips sweep broadcasts.
func (s *Sweeper) SetNotifier(n SweepNotifier) {
	s.notifier = n
}

// Start begins the sweep loop. The first sweep runs immediately so a
// restart drains its crash backlog without waiting out the interval.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("sweeper already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info().
		Dur("interval", s.cfg.SweepInterval).
		Int("batch_size", s.cfg.SweepBatchSize).
		Float64("rate_per_second", s.cfg.SweepRatePerSecond).
		Msg("Starting backlog sweeper")

	go s.run(ctx)
	return nil
}

// Stop stops the sweep loop and waits for the current pass to finish.
func (s *Sweeper) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	close(s.stopCh)
	<-s.doneCh

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info().Msg("Backlog sweeper stopped")
	return nil
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// sweep drains the backlog in batches. Draining stops when a batch
// comes back short (backlog empty) or a full batch makes no progress
// (every message erroring), leaving the retry cadence to the next tick.
func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	var parsed, failed int

drain:
	for {
		batch, err := s.store.GetPendingMessages(ctx, s.cfg.SweepBatchSize)
		if err != nil {
			s.logger.Error().Err(err).Msg("Backlog fetch failed")
			break
		}
		if len(batch) == 0 {
			break
		}

		handled := 0
		for i := range batch {
			if err := s.limiter.Wait(ctx); err != nil {
				break drain
			}
			if _, _, err := s.pipeline.parseStored(ctx, &batch[i]); err != nil {
				failed++
				s.logger.Error().
					Err(err).
					Str("message_id", batch[i].MessageID).
					Msg("Sweep parse failed")
				continue
			}
			parsed++
			handled++
		}

		if len(batch) < s.cfg.SweepBatchSize || handled == 0 {
			break
		}
	}

	duration := time.Since(start)
	metrics.SweepsCompleted.Inc()
	metrics.SweepDuration.Observe(duration.Seconds())
	if pending, err := s.store.CountPendingMessages(ctx); err == nil {
		metrics.ParseBacklog.Set(float64(pending))
	}

	if parsed+failed == 0 {
		s.logger.Debug().Msg("Backlog sweep found nothing pending")
		return
	}

	s.logger.Info().
		Int("parsed", parsed).
		Int("failed", failed).
		Dur("duration", duration).
		Msg("Backlog sweep completed")

	if s.notifier != nil {
		s.notifier.BroadcastSweepCompleted(parsed, failed, duration.Milliseconds())
	}
}
