package overlay

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"regdesk/internal/kv"
	"regdesk/internal/registration/models"
)

type OverlayStoreSuite struct {
	suite.Suite
	ctx   context.Context
	kv    *kv.InMemoryStore
	store *KVStore
}

func TestOverlayStoreSuite(t *testing.T) {
	suite.Run(t, new(OverlayStoreSuite))
}

func (s *OverlayStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = kv.NewInMemoryStore()
	s.store = NewKVStore(s.kv, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *OverlayStoreSuite) TestAllEmptyByDefault() {
	entries, err := s.store.All(s.ctx)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *OverlayStoreSuite) TestPutAndReadBack() {
	paid := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	err := s.store.Put(s.ctx, models.OverlayEntry{
		ParticipantID: "p1",
		PaymentMethod: "cash",
		PaymentDate:   &paid,
		CashierName:   "alice",
	})
	s.Require().NoError(err)

	entries, err := s.store.All(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("cash", entries["p1"].PaymentMethod)
	s.Equal("alice", entries["p1"].CashierName)
}

func (s *OverlayStoreSuite) TestPutSupersedesPreviousEntry() {
	s.Require().NoError(s.store.Put(s.ctx, models.OverlayEntry{ParticipantID: "p1", PaymentMethod: "cash"}))
	s.Require().NoError(s.store.Put(s.ctx, models.OverlayEntry{ParticipantID: "p1", PaymentMethod: "card"}))

	entries, err := s.store.All(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("card", entries["p1"].PaymentMethod)
}

func (s *OverlayStoreSuite) TestPutRequiresParticipantID() {
	s.Error(s.store.Put(s.ctx, models.OverlayEntry{PaymentMethod: "cash"}))
}

func (s *OverlayStoreSuite) TestCorruptBlobTreatedAsEmpty() {
	s.Require().NoError(s.kv.Set(s.ctx, "finalizedPayments", []byte("{not json")))

	entries, err := s.store.All(s.ctx)
	s.Require().NoError(err)
	s.Empty(entries)

	// Writes still work after recovery.
	s.Require().NoError(s.store.Put(s.ctx, models.OverlayEntry{ParticipantID: "p1", PaymentMethod: "cash"}))
	entries, err = s.store.All(s.ctx)
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *OverlayStoreSuite) TestMaintainsIDSet() {
	s.Require().NoError(s.store.Put(s.ctx, models.OverlayEntry{ParticipantID: "p1", PaymentMethod: "cash"}))
	s.Require().NoError(s.store.Put(s.ctx, models.OverlayEntry{ParticipantID: "p2", PaymentMethod: "card"}))

	raw, err := s.kv.Get(s.ctx, "finalizedParticipantIds")
	s.Require().NoError(err)
	var ids []string
	s.Require().NoError(json.Unmarshal(raw, &ids))
	s.ElementsMatch([]string{"p1", "p2"}, ids)
}

func (s *OverlayStoreSuite) TestClear() {
	s.Require().NoError(s.store.Put(s.ctx, models.OverlayEntry{ParticipantID: "p1", PaymentMethod: "cash"}))
	s.Require().NoError(s.store.Clear(s.ctx, "p1"))

	entries, err := s.store.All(s.ctx)
	s.Require().NoError(err)
	s.Empty(entries)

	// Clearing an absent entry is not an error.
	s.Require().NoError(s.store.Clear(s.ctx, "ghost"))
}
