package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"regdesk/internal/events"
	"regdesk/internal/issuance/models"
	"regdesk/internal/issuance/store"
	"regdesk/internal/kv"
	derrors "regdesk/pkg/domain-errors"
)

type IssuanceServiceSuite struct {
	suite.Suite
	ctx     context.Context
	bus     *events.Bus
	service *Service
}

func TestIssuanceServiceSuite(t *testing.T) {
	suite.Run(t, new(IssuanceServiceSuite))
}

func (s *IssuanceServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.ctx = context.Background()
	s.bus = events.NewBus(logger)
	ledger := store.NewKVLedger(kv.NewInMemoryStore(), logger)
	s.service = New(ledger, s.bus, nil, nil, logger)
}

func (s *IssuanceServiceSuite) TestDoubleBadgeIssuance() {
	count, err := s.service.RecordIssuance(s.ctx, "p1", models.KindBadge)
	s.Require().NoError(err)
	s.Equal(1, count)

	count, err = s.service.RecordIssuance(s.ctx, "p1", models.KindBadge)
	s.Require().NoError(err)
	s.Equal(2, count)

	counts, err := s.service.Counts(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(models.Counts{Badge: 2, Kit: 0}, counts)
}

func (s *IssuanceServiceSuite) TestPublishesSignal() {
	var signals []events.Signal
	s.service.Subscribe(func(sig events.Signal) { signals = append(signals, sig) })

	_, err := s.service.RecordIssuance(s.ctx, "p1", models.KindKit)
	s.Require().NoError(err)

	s.Require().Len(signals, 1)
	s.Equal(events.TopicIssuanceRecorded, signals[0].Topic)
	s.Equal("p1", signals[0].ParticipantID)
}

func (s *IssuanceServiceSuite) TestRequiresParticipantID() {
	_, err := s.service.RecordIssuance(s.ctx, "", models.KindBadge)
	s.True(derrors.Is(err, derrors.CodeBadRequest))

	_, err = s.service.Counts(s.ctx, "")
	s.True(derrors.Is(err, derrors.CodeBadRequest))
}
