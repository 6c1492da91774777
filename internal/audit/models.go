package audit

import "time"

// Action names an operator action worth keeping a trail of.
type Action string

const (
	ActionPaymentFinalized Action = "payment_finalized"
	ActionIssuanceRecorded Action = "issuance_recorded"
)

// Event is one operator action. The trail answers "who handed what to whom,
// when" during disputes at the desk.
type Event struct {
	ID            string
	Action        Action
	ParticipantID string
	// Actor is the cashier or operator name when the handler knows it.
	Actor     string
	Detail    string
	RequestID string
	Timestamp time.Time
}
