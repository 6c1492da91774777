package store

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"regdesk/internal/issuance/models"
	"regdesk/internal/kv"
)

type LedgerSuite struct {
	suite.Suite
	ctx    context.Context
	kv     *kv.InMemoryStore
	ledger *KVLedger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = kv.NewInMemoryStore()
	s.ledger = NewKVLedger(s.kv, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *LedgerSuite) TestAppendReturnsNewCount() {
	now := time.Now()

	count, err := s.ledger.Append(s.ctx, "p1", models.KindBadge, now)
	s.Require().NoError(err)
	s.Equal(1, count)

	count, err = s.ledger.Append(s.ctx, "p1", models.KindBadge, now)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *LedgerSuite) TestCountsPerKind() {
	now := time.Now()
	_, err := s.ledger.Append(s.ctx, "p1", models.KindBadge, now)
	s.Require().NoError(err)
	_, err = s.ledger.Append(s.ctx, "p1", models.KindBadge, now)
	s.Require().NoError(err)

	counts, err := s.ledger.Counts(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(models.Counts{Badge: 2, Kit: 0}, counts)

	// Unknown participant reads as zero, not an error.
	counts, err = s.ledger.Counts(s.ctx, "ghost")
	s.Require().NoError(err)
	s.Equal(models.Counts{}, counts)
}

func (s *LedgerSuite) TestKeysAreIndependent() {
	now := time.Now()
	_, err := s.ledger.Append(s.ctx, "p1", models.KindBadge, now)
	s.Require().NoError(err)
	_, err = s.ledger.Append(s.ctx, "p2", models.KindBadge, now)
	s.Require().NoError(err)
	_, err = s.ledger.Append(s.ctx, "p1", models.KindKit, now)
	s.Require().NoError(err)

	counts, err := s.ledger.Counts(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(models.Counts{Badge: 1, Kit: 1}, counts)

	counts, err = s.ledger.Counts(s.ctx, "p2")
	s.Require().NoError(err)
	s.Equal(models.Counts{Badge: 1, Kit: 0}, counts)
}

func (s *LedgerSuite) TestLegacySingleTimestampMigrated() {
	// An earlier desk build stored one timestamp per key instead of a list.
	legacy := map[string]any{
		"p1:badge": "2026-01-05T09:00:00Z",
	}
	blob, err := json.Marshal(legacy)
	s.Require().NoError(err)
	s.Require().NoError(s.kv.Set(s.ctx, "issuanceRecords", blob))

	counts, err := s.ledger.Counts(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(1, counts.Badge)

	// Appending on top of the migrated shape keeps the original handover.
	count, err := s.ledger.Append(s.ctx, "p1", models.KindBadge, time.Now())
	s.Require().NoError(err)
	s.Equal(2, count)

	history, err := s.ledger.History(s.ctx, "p1", models.KindBadge)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(2026, history[0].Year())
}

func (s *LedgerSuite) TestCorruptBlobTreatedAsEmpty() {
	s.Require().NoError(s.kv.Set(s.ctx, "issuanceRecords", []byte("][")))

	counts, err := s.ledger.Counts(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(models.Counts{}, counts)

	// The handover still goes through; bookkeeping faults never block it.
	count, err := s.ledger.Append(s.ctx, "p1", models.KindBadge, time.Now())
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *LedgerSuite) TestConcurrentAppendsLoseNothing() {
	const goroutines = 20
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := models.KindBadge
			if i%2 == 1 {
				kind = models.KindKit
			}
			_, err := s.ledger.Append(s.ctx, "p1", kind, now)
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	counts, err := s.ledger.Counts(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(goroutines/2, counts.Badge)
	s.Equal(goroutines/2, counts.Kit)
}
