package memory

import (
	"context"
	"fmt"
	"sync"

	"lumina/internal/domain"
	"lumina/internal/domain/models/mesh"
)

// HistoryStore is a bounded, newest-first event list.
// Each page session owns its own store seeded from the fixtures.
type HistoryStore struct {
	mu       sync.RWMutex
	events   []mesh.HistoryEvent
	capacity int
}

// NewHistoryStore seeds a store with events.
// capacity bounds the list after every Prepend; the seed itself is kept whole.
func NewHistoryStore(seed []mesh.HistoryEvent, capacity int) *HistoryStore {
	return &HistoryStore{
		events:   append([]mesh.HistoryEvent(nil), seed...),
		capacity: capacity,
	}
}

func (s *HistoryStore) List(ctx context.Context) ([]mesh.HistoryEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]mesh.HistoryEvent(nil), s.events...), nil
}

func (s *HistoryStore) GetByID(ctx context.Context, id string) (*mesh.HistoryEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.events {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, &domain.NotFoundError{Message: fmt.Sprintf("history event %q not found", id)}
}

// Prepend inserts event at index 0 and drops the oldest entries beyond capacity.
// Readers never observe a list longer than capacity after a prepend.
func (s *HistoryStore) Prepend(ctx context.Context, event mesh.HistoryEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keep := len(s.events)
	if s.capacity > 0 && keep > s.capacity-1 {
		keep = s.capacity - 1
	}

	next := make([]mesh.HistoryEvent, 0, keep+1)
	next = append(next, event)
	next = append(next, s.events[:keep]...)
	s.events = next
	return nil
}

// Len returns the number of events currently held
func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.events)
}
