package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		raw  string
		want Category
	}{
		{"member", CategoryMember},
		{"MEMBRE", CategoryMember},
		{"  membre ", CategoryMember},
		{"Non-Membre", CategoryNonMember},
		{"NON_MEMBRE", CategoryNonMember},
		{"vip", CategoryVIP},
		{"VIP", CategoryVIP},
		{"speaker", CategorySpeaker},
		{"CONFERENCIER", CategorySpeaker},
		// Unknown upstream labels degrade to non-member, never break ingestion.
		{"sponsor", CategoryNonMember},
		{"", CategoryNonMember},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeCategory(tc.raw), "raw %q", tc.raw)
	}
}

func TestParseCategoryRejectsUnknown(t *testing.T) {
	_, ok := ParseCategory("sponsor")
	assert.False(t, ok)

	category, ok := ParseCategory("VIP")
	assert.True(t, ok)
	assert.Equal(t, CategoryVIP, category)
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("Finalized")
	assert.True(t, ok)
	assert.Equal(t, StatusFinalized, status)

	status, ok = ParseStatus("non-finalisée")
	assert.True(t, ok)
	assert.Equal(t, StatusNotFinalized, status)

	_, ok = ParseStatus("pending")
	assert.False(t, ok)
}
