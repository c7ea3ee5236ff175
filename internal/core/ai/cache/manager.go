// Package cache memoizes deterministic chat completions in process.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipe-bot/internal/core/ai/provider"
	"recipe-bot/internal/infrastructure/config"
	"recipe-bot/internal/pkg/common"
)

// ErrMiss is returned by Get when no live entry exists.
var ErrMiss = errors.New("cache miss")

// Manager is a TTL cache with least-used eviction.
type Manager struct {
	cfg   config.CacheConfig
	mu    sync.Mutex
	store map[string]cacheEntry
	stats Stats
	done  chan struct{}
	now   func() time.Time
}

type cacheEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// Stats are cumulative counters.
type Stats struct {
	Size      int   `json:"size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// NewManager returns nil when caching is disabled.
func NewManager(cfg config.CacheConfig) *Manager {
	if !cfg.Enabled {
		common.LogInfo("Completion cache disabled")
		return nil
	}

	m := &Manager{
		cfg:   cfg,
		store: make(map[string]cacheEntry),
		done:  make(chan struct{}),
		now:   time.Now,
	}

	go m.startCleanup()

	common.LogInfo("Completion cache initialized",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	return m
}

// Key hashes everything that determines a completion.
func Key(model string, req *provider.Request) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(req.Purpose))
	if req.JSONMode {
		h.Write([]byte{1})
	}
	for _, msg := range req.Messages {
		h.Write([]byte{0})
		h.Write([]byte(msg.Role))
		h.Write([]byte{0})
		h.Write([]byte(msg.Content))
	}
	return req.Purpose + ":" + hex.EncodeToString(h.Sum(nil))
}

// Get returns a live entry or ErrMiss.
func (m *Manager) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.store[key]
	if !ok {
		m.stats.Misses++
		return "", ErrMiss
	}
	if m.now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.Evictions++
		m.stats.Misses++
		return "", ErrMiss
	}

	entry.lastAccess = m.now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.Hits++
	return entry.value, nil
}

// Set stores value, evicting expired and then least-used entries when full.
func (m *Manager) Set(ctx context.Context, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.store[key]; !exists && len(m.store) >= m.cfg.MaxSize {
		if m.cleanup() == 0 {
			m.evictLRU()
		}
	}

	now := m.now()
	m.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(m.cfg.TTL),
		createdAt:  now,
		lastAccess: now,
	}
}

func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			n := m.cleanup()
			m.mu.Unlock()
			if n > 0 {
				common.LogDebug("Cleaned up expired completions", zap.Int("count", n))
			}
		case <-m.done:
			return
		}
	}
}

// cleanup drops expired entries. Callers hold mu.
func (m *Manager) cleanup() int {
	now := m.now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.Evictions++
		}
	}
	return count
}

// evictLRU drops the least accessed entry, oldest access first. Callers hold mu.
func (m *Manager) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.Evictions++
	}
}

// GetStats returns a snapshot of the counters.
func (m *Manager) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stats
	s.Size = len(m.store)
	return s
}

// Close stops the cleanup goroutine and empties the cache.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
	default:
		close(m.done)
	}
	m.store = make(map[string]cacheEntry)
	common.LogInfo("Completion cache closed",
		zap.Int64("hits", m.stats.Hits),
		zap.Int64("misses", m.stats.Misses),
		zap.Int64("evictions", m.stats.Evictions),
	)
	return nil
}
