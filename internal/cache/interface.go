// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package cache

import (
	"time"

	"github.com/tomtom215/tickerflow/internal/config"
)

// Cacher is the interface the API layer caches responses through.
// Both Cache (TTL) and LFUCache implement it, so the eviction strategy
// is a deployment choice, not a code change.
type Cacher interface {
	// Get retrieves a value. Returns false for missing or expired
	// entries.
	Get(key string) (interface{}, bool)

	// Set stores a value with the default TTL.
	Set(key string, value interface{})

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(key string, value interface{}, ttl time.Duration)

	// Delete removes a value.
	Delete(key string)

	// Clear removes all entries.
	Clear()

	// GetStats returns cache counters.
	GetStats() Stats

	// HitRate returns the hit rate as a percentage.
	HitRate() float64
}

// Strategy names accepted by the factory.
const (
	TypeTTL = "ttl"
	TypeLFU = "lfu"
)

// NewFromConfig builds the cache the API configuration asks for.
// Unknown strategy names fall back to the TTL cache.
func NewFromConfig(cfg config.APIConfig) Cacher {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	switch cfg.CacheType {
	case TypeLFU:
		capacity := cfg.CacheCapacity
		if capacity <= 0 {
			capacity = 10000
		}
		return &lfuAdapter{LFUCache: NewLFUCache(capacity, ttl)}
	default:
		return New(ttl)
	}
}

// NewTTL creates a TTL cache behind the Cacher interface.
func NewTTL(ttl time.Duration) Cacher {
	return New(ttl)
}

// NewLFU creates an LFU cache behind the Cacher interface.
func NewLFU(capacity int, ttl time.Duration) Cacher {
	return &lfuAdapter{LFUCache: NewLFUCache(capacity, ttl)}
}

// lfuAdapter narrows LFUCache's signatures to Cacher.
type lfuAdapter struct {
	*LFUCache
}

func (a *lfuAdapter) Delete(key string) {
	a.LFUCache.Delete(key)
}

func (a *lfuAdapter) GetStats() Stats {
	hits, misses, size := a.Stats()
	return Stats{
		Hits:      hits,
		Misses:    misses,
		TotalKeys: int64(size),
	}
}

var (
	_ Cacher = (*Cache)(nil)
	_ Cacher = (*lfuAdapter)(nil)
)
