package cache

import (
	"sync"
	"time"

	"CryptoAnalyst/internal/model"
)

// Memory is an in-process TTL cache, used when SQLite is not configured.
type Memory struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]*model.Series
}

// NewMemory creates an in-memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]*model.Series),
	}
}

func (m *Memory) Get(symbol string, now time.Time) (*model.Series, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.entries[symbol]
	if !ok {
		return nil, false
	}
	if now.Sub(s.FetchedAt) >= m.ttl {
		delete(m.entries, symbol)
		return nil, false
	}
	return s, true
}

func (m *Memory) Put(series *model.Series) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[series.Symbol] = series
	return nil
}

func (m *Memory) Close() error { return nil }
