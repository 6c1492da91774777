package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Topic names a class of back-office change signals.
type Topic string

const (
	TopicRegistrationRefreshed Topic = "registration.refreshed"
	TopicPaymentFinalized      Topic = "payment.finalized"
	TopicIssuanceRecorded      Topic = "issuance.recorded"
)

// Signal is the payload delivered to subscribers. ParticipantID is empty for
// whole-dataset signals such as a remote refresh.
type Signal struct {
	Topic         Topic
	ParticipantID string
	At            time.Time
}

// Bus is an in-process publish/subscribe hub. Dependent views register
// callbacks here instead of hooking into any UI or framework lifecycle, so
// recompute triggers stay testable.
type Bus struct {
	mu     sync.RWMutex
	logger *slog.Logger
	subs   map[Topic][]func(Signal)
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		logger: logger,
		subs:   make(map[Topic][]func(Signal)),
	}
}

// Subscribe registers fn for every future signal on topic.
func (b *Bus) Subscribe(topic Topic, fn func(Signal)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], fn)
}

// Publish delivers the signal to all subscribers synchronously. A panicking
// subscriber is logged and skipped; publishing must never take the caller down.
func (b *Bus) Publish(ctx context.Context, sig Signal) {
	if sig.At.IsZero() {
		sig.At = time.Now()
	}

	b.mu.RLock()
	subs := append([]func(Signal){}, b.subs[sig.Topic]...)
	b.mu.RUnlock()

	for _, fn := range subs {
		b.deliver(ctx, sig, fn)
	}
}

func (b *Bus) deliver(ctx context.Context, sig Signal, fn func(Signal)) {
	defer func() {
		if rec := recover(); rec != nil && b.logger != nil {
			b.logger.ErrorContext(ctx, "subscriber panic",
				"topic", string(sig.Topic),
				"panic", rec,
			)
		}
	}()
	fn(sig)
}
