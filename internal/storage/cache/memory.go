// Package cache provides quote caches backed by process memory or Redis.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/models"
)

type memoryEntry struct {
	quote     models.Quote
	expiresAt time.Time
}

// SweepInterval is the minimum time between full passes over the map to drop expired entries.
const SweepInterval = time.Minute

// Memory is a mutex guarded TTL map. Expired entries are dropped on read,
// and Set sweeps the whole map at most once per SweepInterval.
type Memory struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, symbol string) (*models.Quote, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[symbol]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		if current, still := m.entries[symbol]; still && !m.now().Before(current.expiresAt) {
			delete(m.entries, symbol)
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	q := entry.quote
	return &q, true, nil
}

func (m *Memory) Set(_ context.Context, symbol string, quote *models.Quote, ttl time.Duration) error {
	if quote == nil || ttl <= 0 {
		return nil
	}
	now := m.now()
	m.mu.Lock()
	if !now.Before(m.nextSweep) {
		m.sweepLocked(now)
	}
	m.entries[symbol] = memoryEntry{quote: *quote, expiresAt: now.Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) sweepLocked(now time.Time) {
	for symbol, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, symbol)
		}
	}
	m.nextSweep = now.Add(SweepInterval)
}

// Len returns the number of stored entries, including any not yet evicted.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) Close() error { return nil }

var _ interfaces.QuoteCache = (*Memory)(nil)
