package query

import (
	"strings"

	"regdesk/internal/registration/models"
)

// Criteria is a multi-predicate filter over the reconciled view. Within one
// field values OR together; across fields predicates AND. An empty field means
// no restriction, never "match nothing".
type Criteria struct {
	FreeText        string
	Categories      []models.Category
	Statuses        []models.Status
	OrganizationIDs []string
	Countries       []string
}

// FromParams builds Criteria from raw string predicates, dropping values that
// do not parse. A malformed predicate narrows nothing instead of erroring.
func FromParams(freeText string, categories, statuses, organizationIDs, countries []string) Criteria {
	criteria := Criteria{
		FreeText:        strings.TrimSpace(freeText),
		OrganizationIDs: compact(organizationIDs),
		Countries:       compact(countries),
	}
	for _, raw := range categories {
		if category, ok := models.ParseCategory(raw); ok {
			criteria.Categories = append(criteria.Categories, category)
		}
	}
	for _, raw := range statuses {
		if status, ok := models.ParseStatus(raw); ok {
			criteria.Statuses = append(criteria.Statuses, status)
		}
	}
	return criteria
}

// Apply filters records by the criteria. Stateless and allocation-light; safe
// to re-run on every keystroke of a search box.
func Apply(records []models.ParticipantRecord, criteria Criteria) []models.ParticipantRecord {
	needle := strings.ToLower(criteria.FreeText)

	matched := make([]models.ParticipantRecord, 0, len(records))
	for _, record := range records {
		if !matchCategory(record, criteria.Categories) {
			continue
		}
		if !matchStatus(record, criteria.Statuses) {
			continue
		}
		if !matchString(record.OrganizationID, criteria.OrganizationIDs) {
			continue
		}
		if !matchCountry(record, criteria.Countries) {
			continue
		}
		if needle != "" && !matchFreeText(record, needle) {
			continue
		}
		matched = append(matched, record)
	}
	return matched
}

func matchCategory(record models.ParticipantRecord, categories []models.Category) bool {
	if len(categories) == 0 {
		return true
	}
	for _, category := range categories {
		if record.Category == category {
			return true
		}
	}
	return false
}

func matchStatus(record models.ParticipantRecord, statuses []models.Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, status := range statuses {
		if record.Status == status {
			return true
		}
	}
	return false
}

func matchString(value string, values []string) bool {
	if len(values) == 0 {
		return true
	}
	for _, candidate := range values {
		if value == candidate {
			return true
		}
	}
	return false
}

func matchCountry(record models.ParticipantRecord, countries []string) bool {
	if len(countries) == 0 {
		return true
	}
	for _, country := range countries {
		if strings.EqualFold(record.Country, country) {
			return true
		}
	}
	return false
}

// matchFreeText checks the needle against every searchable field, any one
// sufficing: name, email, reference, phone, country, organization name.
func matchFreeText(record models.ParticipantRecord, needle string) bool {
	for _, haystack := range []string{
		record.FullName,
		record.Email,
		record.Reference,
		record.Phone,
		record.Country,
		record.OrganizationName,
	} {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}

func compact(values []string) []string {
	var out []string
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
