package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regdesk/internal/registration/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestReconcileEmptyOverlayPassesThrough(t *testing.T) {
	remote := []models.ParticipantRecord{
		{ID: "p1", Status: models.StatusFinalized, Category: models.CategoryMember},
		{ID: "p2", Status: models.StatusNotFinalized, Category: models.CategoryVIP},
	}

	got := Reconcile(remote, map[string]models.OverlayEntry{})
	assert.Equal(t, remote, got)

	got = Reconcile(remote, nil)
	assert.Equal(t, remote, got)
}

func TestReconcileOverlayFinalizesRecord(t *testing.T) {
	paid := date("2026-01-10")
	remote := []models.ParticipantRecord{
		{ID: "p2", Status: models.StatusNotFinalized},
	}
	overlay := map[string]models.OverlayEntry{
		"p2": {ParticipantID: "p2", PaymentMethod: "cash", PaymentDate: &paid},
	}

	got := Reconcile(remote, overlay)
	require.Len(t, got, 1)
	assert.Equal(t, models.StatusFinalized, got[0].Status)
	assert.Equal(t, "cash", got[0].PaymentMethod)
	require.NotNil(t, got[0].PaymentDate)
	assert.True(t, got[0].PaymentDate.Equal(paid))

	// The input record is untouched; reconciliation produces copies.
	assert.Equal(t, models.StatusNotFinalized, remote[0].Status)
}

func TestReconcileRemotePaymentValuesWin(t *testing.T) {
	remoteDate := date("2026-01-08")
	overlayDate := date("2026-01-10")
	remote := []models.ParticipantRecord{
		{ID: "p3", Status: models.StatusNotFinalized, PaymentMethod: "card", PaymentDate: &remoteDate},
	}
	overlay := map[string]models.OverlayEntry{
		"p3": {ParticipantID: "p3", PaymentMethod: "cash", PaymentDate: &overlayDate},
	}

	got := Reconcile(remote, overlay)
	require.Len(t, got, 1)
	assert.Equal(t, models.StatusFinalized, got[0].Status)
	assert.Equal(t, "card", got[0].PaymentMethod)
	assert.True(t, got[0].PaymentDate.Equal(remoteDate))
}

func TestReconcileNeverDowngradesFinalized(t *testing.T) {
	remote := []models.ParticipantRecord{
		{ID: "p4", Status: models.StatusFinalized, PaymentMethod: "transfer"},
	}
	overlay := map[string]models.OverlayEntry{
		"p4": {ParticipantID: "p4", PaymentMethod: "cash"},
	}

	got := Reconcile(remote, overlay)
	require.Len(t, got, 1)
	assert.Equal(t, models.StatusFinalized, got[0].Status)
	assert.Equal(t, "transfer", got[0].PaymentMethod)

	// Re-running with the same or more overlay entries stays finalized.
	overlay["p5"] = models.OverlayEntry{ParticipantID: "p5"}
	again := Reconcile(got, overlay)
	require.Len(t, again, 1)
	assert.Equal(t, models.StatusFinalized, again[0].Status)
}

func TestReconcileIgnoresOverlayOnlyParticipants(t *testing.T) {
	remote := []models.ParticipantRecord{
		{ID: "p1", Status: models.StatusNotFinalized},
	}
	overlay := map[string]models.OverlayEntry{
		"ghost": {ParticipantID: "ghost", PaymentMethod: "cash"},
	}

	got := Reconcile(remote, overlay)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, models.StatusNotFinalized, got[0].Status)
}

func TestReconcileToleratesMissingOptionalFields(t *testing.T) {
	// Overlay without a payment date, remote without payment info: the
	// expected happy path, not an error.
	remote := []models.ParticipantRecord{
		{ID: "p6", Status: models.StatusNotFinalized},
	}
	overlay := map[string]models.OverlayEntry{
		"p6": {ParticipantID: "p6"},
	}

	got := Reconcile(remote, overlay)
	require.Len(t, got, 1)
	assert.Equal(t, models.StatusFinalized, got[0].Status)
	assert.Empty(t, got[0].PaymentMethod)
	assert.Nil(t, got[0].PaymentDate)
}
