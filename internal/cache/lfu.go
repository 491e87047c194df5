// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package cache

import (
	"sync"
	"time"
)

// LFUEntry is one entry in the LFU cache.
type LFUEntry struct {
	key       string
	value     interface{}
	freq      int
	expiresAt time.Time
	prev      *LFUEntry
	next      *LFUEntry
}

// freqList is a doubly-linked list of entries sharing one access
// frequency, with sentinel head and tail. Within a frequency, recently
// touched entries sit at the front, so removeLast evicts the least
// recently used among the least frequently used.
type freqList struct {
	head *LFUEntry
	tail *LFUEntry
	size int
}

func newFreqList() *freqList {
	fl := &freqList{
		head: &LFUEntry{},
		tail: &LFUEntry{},
	}
	fl.head.next = fl.tail
	fl.tail.prev = fl.head
	return fl
}

func (fl *freqList) addToFront(entry *LFUEntry) {
	entry.prev = fl.head
	entry.next = fl.head.next
	fl.head.next.prev = entry
	fl.head.next = entry
	fl.size++
}

func (fl *freqList) remove(entry *LFUEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	entry.prev = nil
	entry.next = nil
	fl.size--
}

func (fl *freqList) removeLast() *LFUEntry {
	if fl.size == 0 {
		return nil
	}
	entry := fl.tail.prev
	fl.remove(entry)
	return entry
}

func (fl *freqList) isEmpty() bool {
	return fl.size == 0
}

// LFUCache is a thread-safe least-frequently-used cache with O(1)
// Get, Set, and eviction, plus lazy TTL expiry. It holds at most
// capacity entries; when full, the least recently used entry at the
// minimum frequency is evicted.
//
// The structure is the classic two-map design: keyMap for O(1) lookup,
// freqMap from frequency to its entry list, and minFreq tracking the
// eviction candidate frequency.
type LFUCache struct {
	mu sync.RWMutex

	capacity int
	ttl      time.Duration

	keyMap  map[string]*LFUEntry
	freqMap map[int]*freqList
	minFreq int

	hits   int64
	misses int64
}

// NewLFUCache creates an LFU cache with the given capacity and default
// TTL. Non-positive arguments fall back to 10000 entries and 5
// minutes.
func NewLFUCache(capacity int, ttl time.Duration) *LFUCache {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &LFUCache{
		capacity: capacity,
		ttl:      ttl,
		keyMap:   make(map[string]*LFUEntry, capacity),
		freqMap:  make(map[int]*freqList),
	}
}

// Get retrieves a value and increments its access frequency. Expired
// entries are removed and reported as misses.
func (c *LFUCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.keyMap[key]
	if !exists {
		c.misses++
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		c.removeEntry(entry)
		c.misses++
		return nil, false
	}

	c.incrementFreq(entry)
	c.hits++

	return entry.value, true
}

// Set stores a value with the default TTL, evicting if at capacity.
func (c *LFUCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL. Updating an existing
// key refreshes its value and expiry and counts as an access.
func (c *LFUCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)

	if entry, exists := c.keyMap[key]; exists {
		entry.value = value
		entry.expiresAt = expiresAt
		c.incrementFreq(entry)
		return
	}

	if len(c.keyMap) >= c.capacity {
		c.evict()
	}

	entry := &LFUEntry{
		key:       key,
		value:     value,
		freq:      1,
		expiresAt: expiresAt,
	}

	if c.freqMap[1] == nil {
		c.freqMap[1] = newFreqList()
	}
	c.freqMap[1].addToFront(entry)
	c.keyMap[key] = entry
	c.minFreq = 1
}

// Delete removes an entry. Returns true if it existed.
func (c *LFUCache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.keyMap[key]; exists {
		c.removeEntry(entry)
		return true
	}
	return false
}

// Contains reports whether a live entry exists without touching its
// frequency.
func (c *LFUCache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if entry, exists := c.keyMap[key]; exists {
		return !time.Now().After(entry.expiresAt)
	}
	return false
}

// Len returns the current number of entries.
func (c *LFUCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keyMap)
}

// Clear removes all entries.
func (c *LFUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.keyMap = make(map[string]*LFUEntry, c.capacity)
	c.freqMap = make(map[int]*freqList)
	c.minFreq = 0
}

// Stats returns hit, miss, and size counters.
func (c *LFUCache) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, len(c.keyMap)
}

// HitRate returns the hit rate as a percentage.
func (c *LFUCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	if total == 0 {
		return 0.0
	}
	return float64(c.hits) / float64(total) * 100.0
}

// GetFrequency returns the access frequency of a key, 0 if absent.
func (c *LFUCache) GetFrequency(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if entry, exists := c.keyMap[key]; exists {
		return entry.freq
	}
	return 0
}

// CleanupExpired removes all expired entries and returns how many were
// removed. Expiry is otherwise lazy, so callers with long-lived cold
// keys can sweep periodically.
func (c *LFUCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0

	for _, entry := range c.keyMap {
		if now.After(entry.expiresAt) {
			c.removeEntry(entry)
			removed++
		}
	}

	return removed
}

// incrementFreq moves an entry up one frequency level. Caller holds
// the lock.
func (c *LFUCache) incrementFreq(entry *LFUEntry) {
	oldFreq := entry.freq

	if fl, exists := c.freqMap[oldFreq]; exists {
		fl.remove(entry)
		if fl.isEmpty() && c.minFreq == oldFreq {
			c.minFreq++
		}
	}

	entry.freq++
	if c.freqMap[entry.freq] == nil {
		c.freqMap[entry.freq] = newFreqList()
	}
	c.freqMap[entry.freq].addToFront(entry)
}

// evict removes the least frequently used entry. Caller holds the
// lock.
func (c *LFUCache) evict() {
	fl := c.freqMap[c.minFreq]
	if fl == nil || fl.isEmpty() {
		return
	}

	if entry := fl.removeLast(); entry != nil {
		delete(c.keyMap, entry.key)
	}
}

// removeEntry removes an entry from both maps. Caller holds the lock.
func (c *LFUCache) removeEntry(entry *LFUEntry) {
	if fl, exists := c.freqMap[entry.freq]; exists {
		fl.remove(entry)
	}
	delete(c.keyMap, entry.key)
}
