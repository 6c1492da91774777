//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"regdesk/internal/audit"
	"regdesk/internal/audit/store/postgres"
	"regdesk/pkg/testutil/containers"
)

type PostgresAuditSuite struct {
	suite.Suite
	ctx       context.Context
	container *containers.PostgresContainer
	store     *postgres.Store
}

func TestPostgresAuditSuite(t *testing.T) {
	suite.Run(t, new(PostgresAuditSuite))
}

func (s *PostgresAuditSuite) SetupSuite() {
	s.ctx = context.Background()
	s.container = containers.NewPostgresContainer(s.T())
	s.store = postgres.New(s.container.DB)
	s.Require().NoError(s.store.Migrate(s.ctx))
}

func (s *PostgresAuditSuite) SetupTest() {
	s.Require().NoError(s.container.TruncateTables(s.ctx, "audit_events"))
}

func (s *PostgresAuditSuite) event(participantID string, action audit.Action, at time.Time) audit.Event {
	return audit.Event{
		ID:            uuid.NewString(),
		Action:        action,
		ParticipantID: participantID,
		Actor:         "desk-1",
		Detail:        "badge",
		RequestID:     uuid.NewString(),
		Timestamp:     at,
	}
}

func (s *PostgresAuditSuite) TestAppendAndList() {
	base := time.Now().UTC().Truncate(time.Microsecond)
	first := s.event("p1", audit.ActionPaymentFinalized, base)
	second := s.event("p1", audit.ActionIssuanceRecorded, base.Add(time.Minute))
	other := s.event("p2", audit.ActionIssuanceRecorded, base)

	s.Require().NoError(s.store.Append(s.ctx, first))
	s.Require().NoError(s.store.Append(s.ctx, second))
	s.Require().NoError(s.store.Append(s.ctx, other))

	events, err := s.store.ListByParticipant(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(first.ID, events[0].ID)
	s.Equal(audit.ActionPaymentFinalized, events[0].Action)
	s.Equal(second.ID, events[1].ID)
	s.Equal("desk-1", events[1].Actor)
}

func (s *PostgresAuditSuite) TestListOrderedByOccurrence() {
	base := time.Now().UTC().Truncate(time.Microsecond)
	late := s.event("p1", audit.ActionIssuanceRecorded, base.Add(time.Hour))
	early := s.event("p1", audit.ActionPaymentFinalized, base)

	s.Require().NoError(s.store.Append(s.ctx, late))
	s.Require().NoError(s.store.Append(s.ctx, early))

	events, err := s.store.ListByParticipant(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(early.ID, events[0].ID)
	s.Equal(late.ID, events[1].ID)
}

func (s *PostgresAuditSuite) TestListUnknownParticipant() {
	events, err := s.store.ListByParticipant(s.ctx, "missing")
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *PostgresAuditSuite) TestMigrateIsIdempotent() {
	s.Require().NoError(s.store.Migrate(s.ctx))
}
