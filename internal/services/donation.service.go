package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/payment"
	"github.com/givehub/donation-platform/internal/queue"
	"github.com/givehub/donation-platform/internal/repository"
	"github.com/givehub/donation-platform/pkg/logger"
	"github.com/givehub/donation-platform/pkg/prom"
)

var (
	ErrInvalidAmount           = errors.New("donation amount must be positive")
	ErrMissingDonorContact     = errors.New("guest donations require donor name and email")
	ErrPaymentValidationFailed = errors.New("payment details failed validation")
	ErrProgramNotFound         = errors.New("program not found")
)

// refAttempts bounds reference regeneration when an insert collides with an
// existing transaction reference.
const refAttempts = 3

type DonationRepository interface {
	Create(ctx context.Context, d *model.Donation) (*model.Donation, error)
	List(ctx context.Context, f model.DonationFilter) ([]*model.Donation, int64, error) // results, totalCount
	SumSuccessfulAmount(ctx context.Context, programID int64) (float64, error)
}

type ProgramGetter interface {
	GetByID(ctx context.Context, id int64) (*model.Program, error)
}

type DonationService struct {
	donationRepo DonationRepository
	programRepo  ProgramGetter
	receiptQueue *queue.Queue
}

// NewDonationService wires the donation processor. receiptQueue may be nil;
// donations are then accepted without receipt events.
func NewDonationService(donationRepo DonationRepository, programRepo ProgramGetter, receiptQueue *queue.Queue) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		programRepo:  programRepo,
		receiptQueue: receiptQueue,
	}
}

// Submit runs the full donation flow: preconditions, card validation,
// persistence, receipt publication. Nothing is persisted when any check
// fails, and the card fields never leave this call.
func (s *DonationService) Submit(ctx context.Context, p model.DonationCreateRequest) (*model.Donation, error) {
	if p.Amount <= 0 {
		prom.RecordDonationOutcome("rejected")
		return nil, ErrInvalidAmount
	}
	if p.UserID == nil && !p.HasDonorContact() {
		prom.RecordDonationOutcome("rejected")
		return nil, ErrMissingDonorContact
	}

	if p.ProgramID != nil {
		if _, err := s.programRepo.GetByID(ctx, *p.ProgramID); err != nil {
			if errors.Is(err, repository.ErrProgramNotFound) {
				prom.RecordDonationOutcome("rejected")
				return nil, ErrProgramNotFound
			}
			return nil, err
		}
	}

	if !payment.ValidateCard(p.CardNumber, p.CardExpiry, p.CardCVV) {
		prom.RecordDonationOutcome("rejected")
		return nil, ErrPaymentValidationFailed
	}

	d := &model.Donation{
		UserID:              p.UserID,
		ProgramID:           p.ProgramID,
		CauseName:           p.CauseName,
		Amount:              p.Amount,
		PaymentMethod:       model.PaymentMethodSimulatedCard,
		PaymentStatus:       model.PaymentStatusSuccess,
		DonorName:           p.DonorName,
		DonorEmail:          p.DonorEmail,
		DonorPhone:          p.DonorPhone,
		DonorAddress:        p.DonorAddress,
		IsAnonymous:         p.IsAnonymous,
		SubscribeNewsletter: p.SubscribeNewsletter,
	}

	created, err := s.persistWithFreshRef(ctx, d)
	if err != nil {
		return nil, err
	}

	prom.RecordDonationOutcome("accepted")
	prom.ObserveDonationAmount(created.Amount)

	s.publishReceipt(ctx, created)

	return created, nil
}

// persistWithFreshRef regenerates the transaction reference on a unique
// constraint collision. With 48 random bits per reference a collision is
// practically a replay, so three attempts is plenty.
func (s *DonationService) persistWithFreshRef(ctx context.Context, d *model.Donation) (*model.Donation, error) {
	var lastErr error
	for i := 0; i < refAttempts; i++ {
		ref, err := newTransactionRef()
		if err != nil {
			return nil, err
		}
		d.TransactionRef = &ref

		created, err := s.donationRepo.Create(ctx, d)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, repository.ErrDuplicateReference) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("exhausted transaction reference attempts: %w", lastErr)
}

func (s *DonationService) publishReceipt(ctx context.Context, d *model.Donation) {
	if s.receiptQueue == nil {
		return
	}

	event := model.NewReceiptEvent(d)
	if _, err := s.receiptQueue.PublishJSON(ctx, event, map[string]string{"event": "donation.receipt"}); err != nil {
		// The donation row is already durable; receipt delivery is
		// at-most-deferred, never a reason to fail the submission.
		logger.Error("receipt publish failed",
			"donation_id", d.ID,
			"error", err.Error(),
		)
	}
}

// History lists a user's own donations, newest first. Limit and offset page
// through the result; the repository default cap applies when limit is zero.
func (s *DonationService) History(ctx context.Context, userID int64, limit, offset int) ([]*model.Donation, int64, error) {
	return s.donationRepo.List(ctx, model.DonationFilter{
		UserID: &userID,
		Limit:  limit,
		Offset: offset,
		Desc:   true,
	})
}

// List is the admin listing; anonymity redaction happens at the handler.
func (s *DonationService) List(ctx context.Context, f model.DonationFilter) ([]*model.Donation, int64, error) {
	return s.donationRepo.List(ctx, f)
}

func newTransactionRef() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate transaction reference: %w", err)
	}
	return "TXN-" + hex.EncodeToString(buf), nil
}
