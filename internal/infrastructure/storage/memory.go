package storage

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"recipe-bot/internal/core/recipe"
	"recipe-bot/internal/pkg/common"
)

var (
	_ Store[recipe.Recipe]      = (*MemoryStore[recipe.Recipe])(nil)
	_ Store[recipe.VideoRecipe] = (*RedisStore[recipe.VideoRecipe])(nil)
)

// MemoryStore is the in-process backend. Safe for concurrent access.
type MemoryStore[T Record] struct {
	selectors[T]
	mu      sync.RWMutex
	records map[string]T
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore[T Record]() *MemoryStore[T] {
	s := &MemoryStore[T]{records: make(map[string]T)}
	s.selectors = selectors[T]{list: s.List}
	return s
}

func (s *MemoryStore[T]) Save(ctx context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.RecordID()] = rec
	common.LogDebug("recipe saved", zap.String("id", rec.RecordID()), zap.String("backend", "memory"))
	return nil
}

func (s *MemoryStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	return rec, ok, nil
}

func (s *MemoryStore[T]) Update(ctx context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.RecordID()]; !ok {
		return ErrNotFound
	}
	s.records[rec.RecordID()] = rec
	return nil
}

func (s *MemoryStore[T]) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	common.LogDebug("recipe deleted", zap.String("id", id), zap.String("backend", "memory"))
	return true, nil
}

func (s *MemoryStore[T]) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[id]
	return ok, nil
}

func (s *MemoryStore[T]) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records), nil
}

func (s *MemoryStore[T]) List(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	out := make([]T, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	SortNewestFirst(out)
	return out, nil
}

// Ping always succeeds for the in-process backend.
func (s *MemoryStore[T]) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (s *MemoryStore[T]) Close() error {
	return nil
}
