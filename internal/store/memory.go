package store

import (
	"fmt"
	"sync"

	"github.com/i474232898/commute-dashboard/internal/apperr"
	"github.com/i474232898/commute-dashboard/internal/transit"
)

// ErrNotFound is returned when no departure group exists for a station pair.
var ErrNotFound = fmt.Errorf("no departure group for pair: %w", apperr.ErrNotFound)

// MemoryStore is a concurrency-safe in-memory registry of departure groups,
// keyed by station pair. Groups are listed in the order they were added.
type MemoryStore struct {
	mu sync.RWMutex

	// key: pair key, value: group
	groups map[string]*transit.Group
	order  []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		groups: make(map[string]*transit.Group),
	}
}

// Add registers g. A group already registered for the same pair is replaced
// in place and keeps its position.
func (s *MemoryStore) Add(g *transit.Group) {
	key := g.Pair().Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[key]; !ok {
		s.order = append(s.order, key)
	}
	s.groups[key] = g
}

// Get returns the group for pair.
func (s *MemoryStore) Get(pair transit.Pair) (*transit.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[pair.Key()]
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

// List returns every registered group in insertion order.
func (s *MemoryStore) List() []*transit.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*transit.Group, 0, len(s.order))
	for _, key := range s.order {
		result = append(result, s.groups[key])
	}
	return result
}

// Len returns the number of registered groups.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.groups)
}
