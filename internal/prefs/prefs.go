// Package prefs persists the user's filter values and sort selection.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/evcraddock/estateview/internal/kv"
	"github.com/evcraddock/estateview/internal/listing"
)

// Storage keys.
const (
	FiltersStorageKey = "estateview_filters"
	SortStorageKey    = "estateview_sort"
)

var (
	// ErrUnknownFilter is returned when updating a filter key that does not exist.
	ErrUnknownFilter = errors.New("unknown filter")
	// ErrInvalidSort is returned when selecting an unknown sort key.
	ErrInvalidSort = errors.New("invalid sort")
)

// Store holds the current filters and sort. It is safe for concurrent use.
type Store struct {
	storage kv.Storage

	mu      sync.RWMutex
	filters listing.FilterState
	sort    listing.SortKey
}

// NewStore loads persisted preferences once. Missing or corrupt filters
// load as empty; a missing or unknown sort loads as the default.
func NewStore(ctx context.Context, storage kv.Storage) (*Store, error) {
	s := &Store{storage: storage, sort: listing.DefaultSort}

	raw, ok, err := storage.Get(ctx, FiltersStorageKey)
	if err != nil {
		return nil, fmt.Errorf("loading filters: %w", err)
	}
	if ok {
		var f listing.FilterState
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			slog.Warn("discarding corrupt filter snapshot", "key", FiltersStorageKey, "error", err)
		} else {
			s.filters = f
		}
	}

	raw, ok, err = storage.Get(ctx, SortStorageKey)
	if err != nil {
		return nil, fmt.Errorf("loading sort: %w", err)
	}
	if ok {
		if k, valid := listing.ParseSortKey(raw); valid {
			s.sort = k
		} else {
			slog.Warn("ignoring unknown stored sort", "key", SortStorageKey, "value", raw)
		}
	}

	return s, nil
}

// Filters returns the current filter values.
func (s *Store) Filters() listing.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Sort returns the current sort key.
func (s *Store) Sort() listing.SortKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sort
}

// UpdateFilter sets one filter and persists the full filter set.
func (s *Store) UpdateFilter(ctx context.Context, key, value string) error {
	if !listing.ValidFilterKey(key) {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.filters
	if err := next.Set(listing.FilterKey(key), value); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, key)
	}
	return s.saveFilters(ctx, next)
}

// SetFilters replaces every filter value and persists them.
func (s *Store) SetFilters(ctx context.Context, f listing.FilterState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveFilters(ctx, f)
}

// ClearFilters resets all filters and removes them from storage.
func (s *Store) ClearFilters(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Remove(ctx, FiltersStorageKey); err != nil {
		return fmt.Errorf("clearing filters: %w", err)
	}
	s.filters = listing.FilterState{}
	return nil
}

// SetSort selects and persists a sort key.
func (s *Store) SetSort(ctx context.Context, key string) error {
	k, ok := listing.ParseSortKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidSort, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(ctx, SortStorageKey, string(k)); err != nil {
		return fmt.Errorf("saving sort: %w", err)
	}
	s.sort = k
	return nil
}

// saveFilters persists f and installs it. Callers hold s.mu.
func (s *Store) saveFilters(ctx context.Context, f listing.FilterState) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding filters: %w", err)
	}
	if err := s.storage.Set(ctx, FiltersStorageKey, string(data)); err != nil {
		return fmt.Errorf("saving filters: %w", err)
	}
	s.filters = f
	return nil
}
