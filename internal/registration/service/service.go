package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"regdesk/internal/audit"
	"regdesk/internal/events"
	"regdesk/internal/platform/metrics"
	"regdesk/internal/platform/middleware"
	"regdesk/internal/registration/client"
	"regdesk/internal/registration/models"
	"regdesk/internal/registration/store/overlay"
	derrors "regdesk/pkg/domain-errors"
)

// Service owns the reconciled participant view. It refreshes from the remote
// source, applies the desk-local overlay, and signals dependents through the
// bus so list and stats views recompute without polling.
type Service struct {
	client  client.Client
	overlay overlay.Store
	bus     *events.Bus
	metrics *metrics.Metrics
	audit   *audit.Publisher
	logger  *slog.Logger

	mu       sync.RWMutex
	snapshot []models.ParticipantRecord
	fetched  bool
}

func New(
	remote client.Client,
	overlayStore overlay.Store,
	bus *events.Bus,
	m *metrics.Metrics,
	auditor *audit.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		client:  remote,
		overlay: overlayStore,
		bus:     bus,
		metrics: m,
		audit:   auditor,
		logger:  logger,
	}
}

// Refresh refetches the remote listing, reconciles it with the overlay, and
// publishes a change signal. On remote failure the previous snapshot is kept
// and the error is surfaced: callers see an empty result plus an error flag,
// never a silent swallow.
func (s *Service) Refresh(ctx context.Context) ([]models.ParticipantRecord, error) {
	start := time.Now()

	remote, err := s.client.ListParticipants(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RemoteFetchErrors.Inc()
		}
		s.logger.ErrorContext(ctx, "remote fetch failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		return nil, derrors.Wrap(derrors.CodeRemoteUnavailable, "registration listing unavailable", err)
	}

	entries, err := s.overlay.All(ctx)
	if err != nil {
		// Overlay loss degrades to remote truth only; reconciliation itself
		// must not fail over local bookkeeping.
		s.logger.WarnContext(ctx, "overlay read failed, using remote only", "error", err.Error())
		entries = map[string]models.OverlayEntry{}
	}

	reconciled := Reconcile(remote, entries)

	s.mu.Lock()
	s.snapshot = reconciled
	s.fetched = true
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveReconcile(time.Since(start))
		s.metrics.OverlaySize.Set(float64(len(entries)))
	}

	s.bus.Publish(ctx, events.Signal{Topic: events.TopicRegistrationRefreshed})
	return reconciled, nil
}

// Participants returns the reconciled view, refreshing lazily on first use.
func (s *Service) Participants(ctx context.Context) ([]models.ParticipantRecord, error) {
	s.mu.RLock()
	fetched := s.fetched
	snapshot := s.snapshot
	s.mu.RUnlock()

	if !fetched {
		return s.Refresh(ctx)
	}
	return snapshot, nil
}

// FinalizePayment records a desk-side payment finalization for a participant
// and re-reconciles so the change is visible immediately.
func (s *Service) FinalizePayment(ctx context.Context, participantID, method string, date time.Time, cashier string) (models.ParticipantRecord, error) {
	if participantID == "" {
		return models.ParticipantRecord{}, derrors.New(derrors.CodeBadRequest, "participant id is required")
	}
	if method == "" {
		return models.ParticipantRecord{}, derrors.New(derrors.CodeBadRequest, "payment method is required")
	}

	records, err := s.Participants(ctx)
	if err != nil {
		return models.ParticipantRecord{}, err
	}
	if !contains(records, participantID) {
		return models.ParticipantRecord{}, derrors.New(derrors.CodeNotFound, "unknown participant")
	}

	entry := models.OverlayEntry{
		ParticipantID: participantID,
		PaymentMethod: method,
		CashierName:   cashier,
		RecordedAt:    time.Now(),
	}
	if !date.IsZero() {
		entry.PaymentDate = &date
	}
	if err := s.overlay.Put(ctx, entry); err != nil {
		return models.ParticipantRecord{}, derrors.Wrap(derrors.CodeInternal, "failed to persist finalization", err)
	}

	reconciled := s.remerge(ctx)

	if s.metrics != nil {
		s.metrics.PaymentsFinalized.Inc()
	}
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{
			Action:        audit.ActionPaymentFinalized,
			ParticipantID: participantID,
			Actor:         cashier,
			RequestID:     middleware.GetRequestID(ctx),
		})
	}
	s.bus.Publish(ctx, events.Signal{Topic: events.TopicPaymentFinalized, ParticipantID: participantID})

	for _, record := range reconciled {
		if record.ID == participantID {
			return record, nil
		}
	}
	// Unreachable given the containment check above, but never panic over it.
	return models.ParticipantRecord{}, derrors.New(derrors.CodeNotFound, "unknown participant")
}

// ClearConfirmed drops overlay entries whose participants the remote source
// now reports finalized. Explicit maintenance; nothing schedules this.
func (s *Service) ClearConfirmed(ctx context.Context) (int, error) {
	remote, err := s.client.ListParticipants(ctx)
	if err != nil {
		return 0, derrors.Wrap(derrors.CodeRemoteUnavailable, "registration listing unavailable", err)
	}
	entries, err := s.overlay.All(ctx)
	if err != nil {
		return 0, derrors.Wrap(derrors.CodeInternal, "overlay unavailable", err)
	}

	cleared := 0
	for _, record := range remote {
		if record.Status != models.StatusFinalized {
			continue
		}
		if _, ok := entries[record.ID]; !ok {
			continue
		}
		if err := s.overlay.Clear(ctx, record.ID); err != nil {
			return cleared, derrors.Wrap(derrors.CodeInternal, "failed to clear overlay entry", err)
		}
		cleared++
	}
	return cleared, nil
}

// Subscribe registers fn for view invalidation: remote refreshes and local
// payment finalizations.
func (s *Service) Subscribe(fn func(events.Signal)) {
	s.bus.Subscribe(events.TopicRegistrationRefreshed, fn)
	s.bus.Subscribe(events.TopicPaymentFinalized, fn)
}

// remerge re-runs reconciliation against the cached remote snapshot after an
// overlay write, without a remote round trip.
func (s *Service) remerge(ctx context.Context) []models.ParticipantRecord {
	entries, err := s.overlay.All(ctx)
	if err != nil {
		entries = map[string]models.OverlayEntry{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Reconcile(s.snapshot, entries)
	if s.metrics != nil {
		s.metrics.OverlaySize.Set(float64(len(entries)))
	}
	return s.snapshot
}

func contains(records []models.ParticipantRecord, id string) bool {
	for _, record := range records {
		if record.ID == id {
			return true
		}
	}
	return false
}
