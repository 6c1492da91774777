package service

import (
	"regdesk/internal/registration/models"
)

// Reconcile merges the authoritative remote listing with the desk-local
// overlay of finalized-but-not-yet-confirmed payments. This is pure domain
// logic - no I/O, no side effects. The remote listing defines the universe of
// participants: overlay entries without a matching remote record are ignored.
//
// Rules, in order:
//  1. A remote finalized record passes through unchanged. The overlay never
//     downgrades remote truth.
//  2. A not-finalized record with an overlay entry becomes a finalized copy.
//     Payment method and date come from the overlay unless the remote record
//     already carries non-empty values, which win.
//  3. A not-finalized record without an overlay entry passes through unchanged.
func Reconcile(remote []models.ParticipantRecord, overlay map[string]models.OverlayEntry) []models.ParticipantRecord {
	if len(overlay) == 0 {
		return remote
	}

	reconciled := make([]models.ParticipantRecord, len(remote))
	for i, record := range remote {
		if record.Status == models.StatusFinalized {
			reconciled[i] = record
			continue
		}
		entry, ok := overlay[record.ID]
		if !ok {
			reconciled[i] = record
			continue
		}
		reconciled[i] = applyOverlay(record, entry)
	}
	return reconciled
}

func applyOverlay(record models.ParticipantRecord, entry models.OverlayEntry) models.ParticipantRecord {
	merged := record
	merged.Status = models.StatusFinalized
	if merged.PaymentMethod == "" {
		merged.PaymentMethod = entry.PaymentMethod
	}
	if merged.PaymentDate == nil && entry.PaymentDate != nil {
		date := *entry.PaymentDate
		merged.PaymentDate = &date
	}
	return merged
}
