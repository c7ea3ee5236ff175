// Package storage keeps recipe records in process or in Redis behind one
// contract. Collection reads load the full set and filter in memory; the
// identifier is the only index.
package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned by mutations that target a missing identifier.
// Lookups report absence through their boolean result instead.
var ErrNotFound = errors.New("recipe not found")

// Record is what a stored type exposes to the store.
type Record interface {
	RecordID() string
	CreatedTime() time.Time
	SearchName() string
	SearchIngredients() []string
	Language() string
}

// Store is the recipe store contract shared by both backends.
type Store[T Record] interface {
	// Save inserts or replaces the record under its identifier.
	Save(ctx context.Context, rec T) error
	// Get returns ok=false when id is absent.
	Get(ctx context.Context, id string) (rec T, ok bool, err error)
	// Update replaces an existing record and fails with ErrNotFound otherwise.
	Update(ctx context.Context, rec T) error
	// Delete reports whether a record existed.
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	// List returns every record, newest first.
	List(ctx context.Context) ([]T, error)
	// Search matches query case-insensitively against the name and, when
	// includeIngredients is set, any ingredient. Newest first.
	Search(ctx context.Context, query string, includeIngredients bool) ([]T, error)
	FilterByLanguage(ctx context.Context, lang string) ([]T, error)
	// FilterByCreated keeps records created within [from, to]; a zero bound is open.
	FilterByCreated(ctx context.Context, from, to time.Time) ([]T, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// SortNewestFirst orders records by creation time descending, ties by id.
func SortNewestFirst[T Record](recs []T) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i].CreatedTime(), recs[j].CreatedTime()
		if a.Equal(b) {
			return recs[i].RecordID() < recs[j].RecordID()
		}
		return a.After(b)
	})
}

// Matches applies the Search predicate to one record.
func Matches[T Record](rec T, query string, includeIngredients bool) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	if strings.Contains(strings.ToLower(rec.SearchName()), q) {
		return true
	}
	if !includeIngredients {
		return false
	}
	for _, ing := range rec.SearchIngredients() {
		if strings.Contains(strings.ToLower(ing), q) {
			return true
		}
	}
	return false
}

// filter keeps the records for which keep returns true, preserving order.
func filter[T Record](recs []T, keep func(T) bool) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}

// selectors implements the collection reads on top of a List function so
// both backends share one definition.
type selectors[T Record] struct {
	list func(ctx context.Context) ([]T, error)
}

func (s selectors[T]) Search(ctx context.Context, query string, includeIngredients bool) ([]T, error) {
	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(r T) bool { return Matches(r, query, includeIngredients) }), nil
}

func (s selectors[T]) FilterByLanguage(ctx context.Context, lang string) ([]T, error) {
	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	lang = strings.ToLower(lang)
	return filter(all, func(r T) bool { return strings.ToLower(r.Language()) == lang }), nil
}

func (s selectors[T]) FilterByCreated(ctx context.Context, from, to time.Time) ([]T, error) {
	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(r T) bool { return inRange(r.CreatedTime(), from, to) }), nil
}
