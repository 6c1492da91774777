package audit

import "context"

// Store persists the operator action trail. It is append-only; there is no
// update or delete surface.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByParticipant(ctx context.Context, participantID string) ([]Event, error)
}
