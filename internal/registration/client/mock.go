package client

import (
	"context"
	"time"

	"regdesk/internal/registration/models"
)

// MockClient serves a fixed participant listing with a configurable latency to
// mimic real-world calls. Used when no remote URL is configured and in tests.
type MockClient struct {
	Latency time.Duration
	Records []models.ParticipantRecord
	Err     error
}

func (c *MockClient) ListParticipants(ctx context.Context) ([]models.ParticipantRecord, error) {
	if c.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Latency):
		}
	}
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]models.ParticipantRecord{}, c.Records...), nil
}
