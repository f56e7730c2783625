// Package store holds the in-memory set of recent entries for the running
// process. It is the only state shared between concurrent operations.
package store

import (
	"sync"

	"github.com/raphi011/recents/internal/entry"
)

// Store is a concurrency-safe map from entry key to annotated entry.
// Methods never perform I/O while holding the lock.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry.Annotated
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string]entry.Annotated)}
}

// ReplaceAll discards the current contents and installs items.
// Duplicate keys in items resolve to the last occurrence.
func (s *Store) ReplaceAll(items []entry.Annotated) {
	next := make(map[string]entry.Annotated, len(items))
	for _, it := range items {
		next[it.Key] = it
	}

	s.mu.Lock()
	s.entries = next
	s.mu.Unlock()
}

// Upsert inserts item or replaces the entry stored under the same key.
func (s *Store) Upsert(item entry.Annotated) {
	s.mu.Lock()
	s.entries[item.Key] = item
	s.mu.Unlock()
}

// Remove deletes the entry with key. Returns true if it existed.
func (s *Store) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

// RemoveWhere deletes every entry for which match returns true and returns
// the removed entries. match is called with the lock held and must not call
// back into the store.
func (s *Store) RemoveWhere(match func(entry.Annotated) bool) []entry.Annotated {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []entry.Annotated
	for key, it := range s.entries {
		if match(it) {
			removed = append(removed, it)
			delete(s.entries, key)
		}
	}
	return removed
}

// Get returns the entry stored under key.
func (s *Store) Get(key string) (entry.Annotated, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.entries[key]
	return it, ok
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a point-in-time copy of all entries in unspecified order.
func (s *Store) Snapshot() []entry.Annotated {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entry.Annotated, 0, len(s.entries))
	for _, it := range s.entries {
		out = append(out, it)
	}
	return out
}

// Entries returns a copy of the stored entries without annotations,
// in unspecified order.
func (s *Store) Entries() []entry.Entry {
	return entry.Plain(s.Snapshot())
}
