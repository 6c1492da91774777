package memory

import (
	"context"
	"sync"

	"regdesk/internal/audit"
)

// Store is the in-memory audit trail used in tests and single-desk dev runs.
type Store struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
	all    []audit.Event
}

func New() *Store {
	return &Store{events: make(map[string][]audit.Event)}
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ParticipantID] = append(s.events[event.ParticipantID], event)
	s.all = append(s.all, event)
	return nil
}

func (s *Store) ListByParticipant(_ context.Context, participantID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[participantID]...), nil
}

// All returns every recorded event in append order. Test helper.
func (s *Store) All() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.all...)
}
