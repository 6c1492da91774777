package overlay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"regdesk/internal/kv"
	"regdesk/internal/registration/models"
	"regdesk/pkg/platform/sentinel"
)

// Persisted keys. The ID set is redundant with the entry map but kept for
// backward read compatibility with earlier desk builds that only wrote IDs.
const (
	keyFinalizedPayments = "finalizedPayments"
	keyFinalizedIDs      = "finalizedParticipantIds"
)

// Store holds the locally finalized payments awaiting server confirmation.
type Store interface {
	All(ctx context.Context) (map[string]models.OverlayEntry, error)
	Put(ctx context.Context, entry models.OverlayEntry) error
	// Clear removes the entry for a participant, for explicit maintenance
	// once the remote source confirms the finalization. Never scheduled
	// automatically.
	Clear(ctx context.Context, participantID string) error
}

// KVStore persists the overlay in the injected key-value store. The full map
// is stored as one blob, so writes serialize the read-modify-write under a
// mutex to never lose a concurrent finalization.
type KVStore struct {
	mu     sync.Mutex
	kv     kv.Store
	logger *slog.Logger
}

func NewKVStore(store kv.Store, logger *slog.Logger) *KVStore {
	return &KVStore{kv: store, logger: logger}
}

// All returns every overlay entry. A missing or corrupt blob degrades to an
// empty map: losing the overlay must never block the desk.
func (s *KVStore) All(ctx context.Context) (map[string]models.OverlayEntry, error) {
	return s.read(ctx)
}

func (s *KVStore) Put(ctx context.Context, entry models.OverlayEntry) error {
	if entry.ParticipantID == "" {
		return fmt.Errorf("overlay entry requires a participant id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(ctx)
	if err != nil {
		return err
	}
	entries[entry.ParticipantID] = entry
	return s.write(ctx, entries)
}

func (s *KVStore) Clear(ctx context.Context, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(ctx)
	if err != nil {
		return err
	}
	delete(entries, participantID)
	return s.write(ctx, entries)
}

func (s *KVStore) read(ctx context.Context) (map[string]models.OverlayEntry, error) {
	raw, err := s.kv.Get(ctx, keyFinalizedPayments)
	if errors.Is(err, sentinel.ErrNotFound) {
		return map[string]models.OverlayEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read overlay: %w", err)
	}

	var entries map[string]models.OverlayEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		if s.logger != nil {
			s.logger.Warn("overlay blob unparseable, treating as empty", "error", err)
		}
		return map[string]models.OverlayEntry{}, nil
	}
	if entries == nil {
		entries = map[string]models.OverlayEntry{}
	}
	return entries, nil
}

func (s *KVStore) write(ctx context.Context, entries map[string]models.OverlayEntry) error {
	blob, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	if err := s.kv.Set(ctx, keyFinalizedPayments, blob); err != nil {
		return fmt.Errorf("write overlay: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	idBlob, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode overlay ids: %w", err)
	}
	if err := s.kv.Set(ctx, keyFinalizedIDs, idBlob); err != nil {
		return fmt.Errorf("write overlay ids: %w", err)
	}
	return nil
}
