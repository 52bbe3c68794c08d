package model

import (
	"errors"
	"strings"
	"time"
)

// PaymentStatus is the lifecycle state of a donation's simulated payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentMethodSimulatedCard is the only payment method: format-only card
// validation with no payment-network interaction.
const PaymentMethodSimulatedCard = "simulated_card"

// Donation is a single contribution attempt and its outcome. Rows are
// insert-only; a donation is never updated after creation.
type Donation struct {
	ID                  int64         `json:"id"`
	UserID              *int64        `json:"user_id,omitempty"`
	ProgramID           *int64        `json:"program_id,omitempty"`
	CauseName           string        `json:"cause_name"`
	Amount              float64       `json:"amount"`
	PaymentMethod       string        `json:"payment_method"`
	PaymentStatus       PaymentStatus `json:"payment_status"`
	TransactionRef      *string       `json:"transaction_reference,omitempty"`
	DonorName           string        `json:"donor_name,omitempty"`
	DonorEmail          string        `json:"donor_email,omitempty"`
	DonorPhone          string        `json:"donor_phone,omitempty"`
	DonorAddress        string        `json:"donor_address,omitempty"`
	IsAnonymous         bool          `json:"is_anonymous"`
	SubscribeNewsletter bool          `json:"subscribe_newsletter"`
	CreatedAt           time.Time     `json:"created_at"`
}

// PublicView returns a copy safe for public-facing feeds: anonymous
// donations must never expose donor identity.
func (d Donation) PublicView() Donation {
	if d.IsAnonymous {
		d.DonorName = ""
		d.DonorEmail = ""
		d.DonorPhone = ""
		d.DonorAddress = ""
		d.UserID = nil
	}
	return d
}

// DonationCreateRequest is the input for submitting a donation. Card fields
// are validated and then discarded; they are never persisted or logged.
type DonationCreateRequest struct {
	Amount              float64
	ProgramID           *int64
	CauseName           string
	UserID              *int64
	DonorName           string
	DonorEmail          string
	DonorPhone          string
	DonorAddress        string
	IsAnonymous         bool
	SubscribeNewsletter bool

	CardNumber string
	CardExpiry string
	CardCVV    string
}

// HasDonorContact reports whether the request carries enough contact
// information to stand on its own without a user account.
func (p DonationCreateRequest) HasDonorContact() bool {
	return strings.TrimSpace(p.DonorName) != "" && strings.TrimSpace(p.DonorEmail) != ""
}

func (p DonationCreateRequest) Validate() error {
	if p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if p.UserID == nil && !p.HasDonorContact() {
		return errors.New("donor name and email are required for guest donations")
	}
	return nil
}

// DonationFilter controls admin listing queries.
type DonationFilter struct {
	UserID    *int64
	ProgramID *int64
	Status    *PaymentStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
	Desc      bool
}
