package cache

import (
	"sync"
	"time"
)

// Entry is a stored value stamped with its computation time. Staleness is
// judged by the caller against its own TTL; the store never expires entries
// on its own.
type Entry[V any] struct {
	Value      V
	ComputedAt time.Time
}

// Store is a process-wide map from key to the last stored entry. Put
// unconditionally replaces any prior entry; entries are never deleted.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]
}

func New[V any]() *Store[V] {
	return &Store[V]{
		entries: make(map[string]Entry[V]),
	}
}

// Get returns the entry for key, if present.
func (s *Store[V]) Get(key string) (Entry[V], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok
}

// Put stores value under key with the given computation timestamp,
// replacing any prior entry. Last write wins.
func (s *Store[V]) Put(key string, value V, computedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry[V]{Value: value, ComputedAt: computedAt}
}

// Len returns the number of stored entries.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
