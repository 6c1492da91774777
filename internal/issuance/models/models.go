package models

import "strings"

// DocumentKind identifies a physical document handed to a participant.
type DocumentKind string

const (
	KindBadge DocumentKind = "badge"
	KindKit   DocumentKind = "kit"
)

// Kinds lists every document kind the desk hands out.
func Kinds() []DocumentKind {
	return []DocumentKind{KindBadge, KindKit}
}

// ParseKind resolves a request value into a document kind.
func ParseKind(raw string) (DocumentKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "badge":
		return KindBadge, true
	case "kit":
		return KindKit, true
	default:
		return "", false
	}
}

// Counts reports how many times each document kind was handed over. Repeat
// handovers (reprints, replacements) are legitimate, so these are counters,
// not booleans.
type Counts struct {
	Badge int `json:"badge"`
	Kit   int `json:"kit"`
}

// Of returns the counter for one kind.
func (c Counts) Of(kind DocumentKind) int {
	switch kind {
	case KindBadge:
		return c.Badge
	case KindKit:
		return c.Kit
	default:
		return 0
	}
}
