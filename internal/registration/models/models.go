package models

import (
	"strings"
	"time"
)

// Category is the closed participant category set. Raw upstream values are
// normalized into it at the ingestion boundary; core logic never branches on
// raw casing or locale variants.
type Category string

const (
	CategoryMember    Category = "member"
	CategoryNonMember Category = "non-member"
	CategoryVIP       Category = "vip"
	CategorySpeaker   Category = "speaker"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{CategoryMember, CategoryNonMember, CategoryVIP, CategorySpeaker}
}

var categoryAliases = map[string]Category{
	"member":       CategoryMember,
	"membre":       CategoryMember,
	"non-member":   CategoryNonMember,
	"non_member":   CategoryNonMember,
	"nonmember":    CategoryNonMember,
	"non-membre":   CategoryNonMember,
	"non_membre":   CategoryNonMember,
	"vip":          CategoryVIP,
	"speaker":      CategorySpeaker,
	"conferencier": CategorySpeaker,
	"conférencier": CategorySpeaker,
}

// ParseCategory resolves an upstream or predicate category string, reporting
// whether it matched a known alias.
func ParseCategory(raw string) (Category, bool) {
	category, ok := categoryAliases[strings.ToLower(strings.TrimSpace(raw))]
	return category, ok
}

// NormalizeCategory maps an upstream category string onto the closed enum. The
// remote API emits case and locale variants ("MEMBRE", "membre", "member");
// unknown values fall back to non-member so a new upstream label never breaks
// a reconciliation pass.
func NormalizeCategory(raw string) Category {
	if category, ok := ParseCategory(raw); ok {
		return category
	}
	return CategoryNonMember
}

// Status is the registration payment status.
type Status string

const (
	StatusFinalized    Status = "finalized"
	StatusNotFinalized Status = "not-finalized"
)

// ParseStatus resolves a filter predicate value, tolerating upstream spellings.
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "finalized", "finalisee", "finalisée":
		return StatusFinalized, true
	case "not-finalized", "not_finalized", "non-finalisee", "non-finalisée":
		return StatusNotFinalized, true
	default:
		return "", false
	}
}

// ParticipantRecord is the reconciled view of one registration. Remote-origin
// records are never mutated in place; reconciliation produces derived copies.
type ParticipantRecord struct {
	ID               string     `json:"id"`
	Reference        string     `json:"reference"`
	FullName         string     `json:"fullName"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Country          string     `json:"country"`
	OrganizationID   string     `json:"organizationId"`
	OrganizationName string     `json:"organizationName"`
	Category         Category   `json:"category"`
	Status           Status     `json:"registrationStatus"`
	RegisteredAt     time.Time  `json:"registeredAt"`
	PaymentMethod    string     `json:"paymentMethod,omitempty"`
	PaymentDate      *time.Time `json:"paymentDate,omitempty"`
}

// OverlayEntry asserts a payment was finalized at this desk before the remote
// source reflects it. Entries win over a remote not-finalized status but never
// downgrade a remote finalized one, and are kept until explicitly cleared.
type OverlayEntry struct {
	ParticipantID string     `json:"participantId"`
	PaymentMethod string     `json:"paymentMethod"`
	PaymentDate   *time.Time `json:"paymentDate,omitempty"`
	CashierName   string     `json:"cashierName,omitempty"`
	RecordedAt    time.Time  `json:"recordedAt"`
}
