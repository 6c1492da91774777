package service

import (
	"context"
	"log/slog"
	"time"

	"regdesk/internal/audit"
	"regdesk/internal/events"
	"regdesk/internal/issuance/models"
	"regdesk/internal/issuance/store"
	"regdesk/internal/platform/metrics"
	"regdesk/internal/platform/middleware"
	derrors "regdesk/pkg/domain-errors"
)

// Service records physical document handovers and serves live counts.
type Service struct {
	ledger  store.Ledger
	bus     *events.Bus
	metrics *metrics.Metrics
	audit   *audit.Publisher
	logger  *slog.Logger
}

func New(ledger store.Ledger, bus *events.Bus, m *metrics.Metrics, auditor *audit.Publisher, logger *slog.Logger) *Service {
	return &Service{
		ledger:  ledger,
		bus:     bus,
		metrics: m,
		audit:   auditor,
		logger:  logger,
	}
}

// RecordIssuance appends one handover and returns the new count for that kind.
// The ledger allows repeats: a second badge for the same participant is a
// reprint, not an error.
func (s *Service) RecordIssuance(ctx context.Context, participantID string, kind models.DocumentKind) (int, error) {
	if participantID == "" {
		return 0, derrors.New(derrors.CodeBadRequest, "participant id is required")
	}

	count, err := s.ledger.Append(ctx, participantID, kind, time.Now())
	if err != nil {
		return 0, derrors.Wrap(derrors.CodeInternal, "failed to record issuance", err)
	}

	if s.metrics != nil {
		s.metrics.IssuancesRecorded.WithLabelValues(string(kind)).Inc()
	}
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{
			Action:        audit.ActionIssuanceRecorded,
			ParticipantID: participantID,
			Detail:        string(kind),
			RequestID:     middleware.GetRequestID(ctx),
		})
	}
	s.bus.Publish(ctx, events.Signal{Topic: events.TopicIssuanceRecorded, ParticipantID: participantID})

	return count, nil
}

// Counts returns how many times each kind was handed to the participant.
func (s *Service) Counts(ctx context.Context, participantID string) (models.Counts, error) {
	if participantID == "" {
		return models.Counts{}, derrors.New(derrors.CodeBadRequest, "participant id is required")
	}
	counts, err := s.ledger.Counts(ctx, participantID)
	if err != nil {
		return models.Counts{}, derrors.Wrap(derrors.CodeInternal, "failed to read issuance counts", err)
	}
	return counts, nil
}

// Subscribe registers fn for issuance change signals, for any view showing
// live counts.
func (s *Service) Subscribe(fn func(events.Signal)) {
	s.bus.Subscribe(events.TopicIssuanceRecorded, fn)
}
