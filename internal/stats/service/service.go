package service

import (
	"context"
	"sync"
	"time"

	"regdesk/internal/events"
	"regdesk/internal/platform/metrics"
	"regdesk/internal/registration/models"
	"regdesk/internal/stats"
)

// Participants is the slice of the registration service this package needs.
type Participants interface {
	Participants(ctx context.Context) ([]models.ParticipantRecord, error)
}

// Service caches the last built series and invalidates it on change signals,
// so chart endpoints do not rebuild the aggregation on every request while
// still reflecting fresh merges without a restart.
type Service struct {
	source  Participants
	builder *stats.Builder
	metrics *metrics.Metrics

	mu     sync.Mutex
	cached *stats.Series
}

func New(source Participants, builder *stats.Builder, bus *events.Bus, m *metrics.Metrics) *Service {
	s := &Service{
		source:  source,
		builder: builder,
		metrics: m,
	}
	invalidate := func(events.Signal) { s.Invalidate() }
	bus.Subscribe(events.TopicRegistrationRefreshed, invalidate)
	bus.Subscribe(events.TopicPaymentFinalized, invalidate)
	return s
}

// Series returns the registration series, rebuilding only after invalidation.
func (s *Service) Series(ctx context.Context) (stats.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, nil
	}

	reconciled, err := s.source.Participants(ctx)
	if err != nil {
		return stats.Series{}, err
	}

	start := time.Now()
	series := s.builder.BuildSeries(reconciled, time.Now())
	if s.metrics != nil {
		s.metrics.SeriesBuildSeconds.Observe(time.Since(start).Seconds())
	}

	s.cached = &series
	return series, nil
}

// Invalidate drops the cached series; the next Series call rebuilds.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
