// Package favorites keeps the set of listings a user has saved, persisted as
// one JSON snapshot in key/value storage.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/evcraddock/estateview/internal/kv"
)

// StorageKey is the storage key holding the favorites snapshot.
const StorageKey = "estateview_favorites"

// Entry is a saved listing.
type Entry struct {
	PropertyID int64     `json:"propertyId"`
	SavedAt    time.Time `json:"savedAt"`
}

// Store is the process-wide favorites collection. It is safe for
// concurrent use.
type Store struct {
	storage kv.Storage
	now     func() time.Time

	mu          sync.RWMutex
	entries     []Entry
	subscribers map[int]func([]Entry)
	nextSub     int
}

// NewStore loads the persisted snapshot once. A missing or unreadable
// snapshot starts an empty collection.
func NewStore(ctx context.Context, storage kv.Storage) (*Store, error) {
	s := &Store{
		storage:     storage,
		now:         time.Now,
		entries:     []Entry{},
		subscribers: make(map[int]func([]Entry)),
	}

	raw, ok, err := storage.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("loading favorites: %w", err)
	}
	if !ok {
		return s, nil
	}

	s.entries = dedupe(decodeEntries(raw))
	return s, nil
}

// decodeEntries parses a snapshot entry by entry. Malformed entries are
// skipped; a snapshot that is not a JSON array yields nothing.
func decodeEntries(raw string) []Entry {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.Warn("discarding corrupt favorites snapshot", "key", StorageKey, "error", err)
		return nil
	}

	entries := make([]Entry, 0, len(items))
	for i, item := range items {
		var e Entry
		if err := json.Unmarshal(item, &e); err != nil || e.PropertyID <= 0 {
			slog.Warn("skipping malformed favorite", "key", StorageKey, "index", i, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// Add saves a listing. It reports false when the listing was already saved.
func (s *Store) Add(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	if s.indexOf(id) >= 0 {
		s.mu.Unlock()
		return false, nil
	}

	prev := s.entries
	next := append(slices.Clip(prev), Entry{PropertyID: id, SavedAt: s.now().UTC()})
	if err := s.commit(ctx, prev, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.notify(snapshot)
	return true, nil
}

// Remove drops every entry for id. It reports whether anything was removed.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return false, nil
	}

	prev := s.entries
	next := slices.DeleteFunc(slices.Clone(prev), func(e Entry) bool { return e.PropertyID == id })
	if err := s.commit(ctx, prev, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.notify(snapshot)
	return true, nil
}

// Toggle adds id when it is not saved and removes it otherwise. It returns
// the new favorite state.
func (s *Store) Toggle(ctx context.Context, id int64) (bool, error) {
	if s.IsFavorite(id) {
		_, err := s.Remove(ctx, id)
		return false, err
	}
	_, err := s.Add(ctx, id)
	return err == nil, err
}

// IsFavorite reports whether id is saved.
func (s *Store) IsFavorite(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// Entries returns a copy of the saved entries in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// IDs returns the saved listing ids in insertion order.
func (s *Store) IDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.PropertyID
	}
	return ids
}

// Subscribe registers fn to be called with the new entries after every
// successful change. The returned func unregisters it.
func (s *Store) Subscribe(fn func([]Entry)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// commit persists next and installs it. On failure the previous entries
// stay in place. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, prev, next []Entry) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}
	if err := s.storage.Set(ctx, StorageKey, string(data)); err != nil {
		s.entries = prev
		return fmt.Errorf("saving favorites: %w", err)
	}
	s.entries = next
	return nil
}

func (s *Store) notify(entries []Entry) {
	s.mu.RLock()
	fns := make([]func([]Entry), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(slices.Clone(entries))
	}
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.entries, func(e Entry) bool { return e.PropertyID == id })
}

func (s *Store) snapshot() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// dedupe keeps the first entry for each listing.
func dedupe(entries []Entry) []Entry {
	seen := make(map[int64]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if seen[e.PropertyID] {
			continue
		}
		seen[e.PropertyID] = true
		out = append(out, e)
	}
	return out
}
