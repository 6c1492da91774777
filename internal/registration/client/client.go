package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"regdesk/internal/registration/models"
	"regdesk/pkg/platform/sentinel"
)

// Client fetches the authoritative participant listing. The remote system is
// the source of truth; this layer only normalizes categories and resolves
// organization names before the core sees the data.
type Client interface {
	ListParticipants(ctx context.Context) ([]models.ParticipantRecord, error)
}

// HTTPClient talks to the registration API over HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// wire shapes as the remote API emits them. Category and status arrive as
// free-form strings and are normalized here, at the ingestion boundary.
type wireParticipant struct {
	ID             string `json:"id"`
	Reference      string `json:"reference"`
	FullName       string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Country        string `json:"country"`
	OrganizationID string `json:"organizationId"`
	Category       string `json:"category"`
	Status         string `json:"registrationStatus"`
	RegisteredAt   string `json:"registeredAt"`
	PaymentMethod  string `json:"paymentMethod"`
	PaymentDate    string `json:"paymentDate"`
}

type wireOrganization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListParticipants fetches participants and organizations concurrently and
// joins organization names onto the records.
func (c *HTTPClient) ListParticipants(ctx context.Context) ([]models.ParticipantRecord, error) {
	var (
		participants  []wireParticipant
		organizations []wireOrganization
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(ctx, "/participants", &participants)
	})
	g.Go(func() error {
		return c.getJSON(ctx, "/organizations", &organizations)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	orgNames := make(map[string]string, len(organizations))
	for _, org := range organizations {
		orgNames[org.ID] = org.Name
	}

	records := make([]models.ParticipantRecord, 0, len(participants))
	for _, p := range participants {
		records = append(records, toRecord(p, orgNames[p.OrganizationID]))
	}
	return records, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w: %w", path, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d: %w", path, resp.StatusCode, sentinel.ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func toRecord(p wireParticipant, orgName string) models.ParticipantRecord {
	record := models.ParticipantRecord{
		ID:               p.ID,
		Reference:        p.Reference,
		FullName:         p.FullName,
		Email:            p.Email,
		Phone:            p.Phone,
		Country:          p.Country,
		OrganizationID:   p.OrganizationID,
		OrganizationName: orgName,
		Category:         models.NormalizeCategory(p.Category),
		PaymentMethod:    p.PaymentMethod,
	}

	if status, ok := models.ParseStatus(p.Status); ok {
		record.Status = status
	} else {
		record.Status = models.StatusNotFinalized
	}

	// Missing or malformed timestamps are tolerated; the aggregator treats a
	// zero RegisteredAt as "unknown" rather than failing the whole listing.
	if t, err := parseTime(p.RegisteredAt); err == nil {
		record.RegisteredAt = t
	}
	if t, err := parseTime(p.PaymentDate); err == nil && !t.IsZero() {
		record.PaymentDate = &t
	}

	return record
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
