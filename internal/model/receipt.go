package model

import (
	"time"

	"github.com/google/uuid"
)

// ReceiptEvent is published to the receipt queue after a donation is
// durably recorded. It carries everything the notifier needs to compose a
// receipt and deliberately nothing about the payment instrument.
type ReceiptEvent struct {
	EventID        string    `json:"event_id"`
	DonationID     int64     `json:"donation_id"`
	TransactionRef string    `json:"transaction_reference"`
	Amount         float64   `json:"amount"`
	CauseName      string    `json:"cause_name"`
	DonorName      string    `json:"donor_name,omitempty"`
	DonorEmail     string    `json:"donor_email"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewReceiptEvent(d *Donation) ReceiptEvent {
	ref := ""
	if d.TransactionRef != nil {
		ref = *d.TransactionRef
	}
	return ReceiptEvent{
		EventID:        uuid.NewString(),
		DonationID:     d.ID,
		TransactionRef: ref,
		Amount:         d.Amount,
		CauseName:      d.CauseName,
		DonorName:      d.DonorName,
		DonorEmail:     d.DonorEmail,
		CreatedAt:      d.CreatedAt,
	}
}
