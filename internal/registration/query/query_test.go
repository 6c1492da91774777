package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regdesk/internal/registration/models"
)

func fixture() []models.ParticipantRecord {
	return []models.ParticipantRecord{
		{
			ID: "p1", Reference: "REG-001", FullName: "Awa Diop", Email: "awa@acme.ci",
			Phone: "+2250102030405", Country: "CI", OrganizationID: "org-1",
			OrganizationName: "Acme Assurance", Category: models.CategoryMember,
			Status: models.StatusFinalized,
		},
		{
			ID: "p2", Reference: "REG-002", FullName: "Brice Kouassi", Email: "brice@nsia.sn",
			Phone: "+2217701020304", Country: "SN", OrganizationID: "org-2",
			OrganizationName: "NSIA Vie", Category: models.CategoryVIP,
			Status: models.StatusNotFinalized,
		},
		{
			ID: "p3", Reference: "REG-003", FullName: "Chantal Mensah", Email: "chantal@gmail.com",
			Phone: "+22890010203", Country: "TG", OrganizationID: "org-1",
			OrganizationName: "Acme Assurance", Category: models.CategorySpeaker,
			Status: models.StatusFinalized,
		},
	}
}

func ids(records []models.ParticipantRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestApplyNoCriteriaReturnsEverything(t *testing.T) {
	got := Apply(fixture(), Criteria{})
	assert.Len(t, got, 3)
}

func TestApplyORWithinField(t *testing.T) {
	got := Apply(fixture(), Criteria{
		Categories: []models.Category{models.CategoryMember, models.CategoryVIP},
	})
	assert.Equal(t, []string{"p1", "p2"}, ids(got))
}

func TestApplyANDAcrossFields(t *testing.T) {
	got := Apply(fixture(), Criteria{
		OrganizationIDs: []string{"org-1"},
		Statuses:        []models.Status{models.StatusFinalized},
		Categories:      []models.Category{models.CategorySpeaker},
	})
	assert.Equal(t, []string{"p3"}, ids(got))
}

func TestApplyCountryCaseInsensitive(t *testing.T) {
	got := Apply(fixture(), Criteria{Countries: []string{"sn"}})
	assert.Equal(t, []string{"p2"}, ids(got))
}

func TestApplyFreeText(t *testing.T) {
	cases := map[string]string{
		"awa":       "p1", // name fragment
		"REG-002":   "p2", // reference
		"gmail":     "p3", // email domain
		"+22890":    "p3", // phone prefix
		"nsia":      "p2", // organization name
	}
	for needle, want := range cases {
		got := Apply(fixture(), Criteria{FreeText: needle})
		require.Len(t, got, 1, "needle %q", needle)
		assert.Equal(t, want, got[0].ID, "needle %q", needle)
	}
}

func TestApplyFreeTextNoMatch(t *testing.T) {
	got := Apply(fixture(), Criteria{FreeText: "zzz-nope"})
	assert.Empty(t, got)
}

func TestFromParamsDropsMalformedPredicates(t *testing.T) {
	criteria := FromParams("", []string{"MEMBRE", "wizard"}, []string{"finalized", "bogus"}, nil, []string{" ", "CI"})

	// The unknown category and status narrow nothing; the valid ones stay.
	assert.Equal(t, []models.Category{models.CategoryMember}, criteria.Categories)
	assert.Equal(t, []models.Status{models.StatusFinalized}, criteria.Statuses)
	assert.Equal(t, []string{"CI"}, criteria.Countries)
}

func TestFromParamsNormalizesAliases(t *testing.T) {
	criteria := FromParams("", []string{"NON_MEMBRE"}, []string{"non-finalisée"}, nil, nil)
	assert.Equal(t, []models.Category{models.CategoryNonMember}, criteria.Categories)
	assert.Equal(t, []models.Status{models.StatusNotFinalized}, criteria.Statuses)
}
