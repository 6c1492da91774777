package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"regdesk/internal/issuance/models"
	"regdesk/internal/kv"
	"regdesk/pkg/platform/sentinel"
)

// Persisted key for the full ledger blob.
const keyIssuanceRecords = "issuanceRecords"

// Ledger is the append-only handover log keyed by (participant, kind).
type Ledger interface {
	// Append records one handover at the given time and returns the new count
	// for that participant and kind.
	Append(ctx context.Context, participantID string, kind models.DocumentKind, at time.Time) (int, error)
	Counts(ctx context.Context, participantID string) (models.Counts, error)
	History(ctx context.Context, participantID string, kind models.DocumentKind) ([]time.Time, error)
}

// KVLedger persists the ledger in the injected key-value store as one blob of
// timestamp lists. All writes serialize the read-modify-write under a mutex so
// two quick handovers never lose an increment to a stale snapshot.
//
// A legacy desk build stored a single timestamp per key instead of a list;
// reads normalize that shape to a one-element list, never discard it.
type KVLedger struct {
	mu     sync.Mutex
	kv     kv.Store
	logger *slog.Logger
}

func NewKVLedger(store kv.Store, logger *slog.Logger) *KVLedger {
	return &KVLedger{kv: store, logger: logger}
}

func (l *KVLedger) Append(ctx context.Context, participantID string, kind models.DocumentKind, at time.Time) (int, error) {
	if participantID == "" {
		return 0, fmt.Errorf("issuance requires a participant id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	records := l.read(ctx)
	key := recordKey(participantID, kind)
	records[key] = append(records[key], at.UTC().Format(time.RFC3339))

	blob, err := json.Marshal(records)
	if err != nil {
		return 0, fmt.Errorf("encode ledger: %w", err)
	}
	if err := l.kv.Set(ctx, keyIssuanceRecords, blob); err != nil {
		return 0, fmt.Errorf("write ledger: %w", err)
	}
	return len(records[key]), nil
}

func (l *KVLedger) Counts(ctx context.Context, participantID string) (models.Counts, error) {
	l.mu.Lock()
	records := l.read(ctx)
	l.mu.Unlock()

	return models.Counts{
		Badge: len(records[recordKey(participantID, models.KindBadge)]),
		Kit:   len(records[recordKey(participantID, models.KindKit)]),
	}, nil
}

func (l *KVLedger) History(ctx context.Context, participantID string, kind models.DocumentKind) ([]time.Time, error) {
	l.mu.Lock()
	records := l.read(ctx)
	l.mu.Unlock()

	raw := records[recordKey(participantID, kind)]
	history := make([]time.Time, 0, len(raw))
	for _, stamp := range raw {
		t, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			continue
		}
		history = append(history, t)
	}
	return history, nil
}

// read loads the full ledger. Absent, unreachable, or corrupt storage degrades
// to an empty ledger: a badge handover is a physical event that must never be
// blocked by bookkeeping.
func (l *KVLedger) read(ctx context.Context) map[string][]string {
	raw, err := l.kv.Get(ctx, keyIssuanceRecords)
	if errors.Is(err, sentinel.ErrNotFound) {
		return map[string][]string{}
	}
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("ledger unavailable, treating as empty", "error", err.Error())
		}
		return map[string][]string{}
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		if l.logger != nil {
			l.logger.Warn("ledger blob unparseable, treating as empty", "error", err.Error())
		}
		return map[string][]string{}
	}

	records := make(map[string][]string, len(entries))
	for key, value := range entries {
		records[key] = decodeTimestamps(value)
	}
	return records
}

// decodeTimestamps accepts both the current list shape and the legacy single
// timestamp string.
func decodeTimestamps(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

func recordKey(participantID string, kind models.DocumentKind) string {
	return participantID + ":" + string(kind)
}
