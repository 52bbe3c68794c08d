package e2e

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/notifier"
	"github.com/givehub/donation-platform/internal/processor"
	"github.com/givehub/donation-platform/internal/queue"
	"github.com/givehub/donation-platform/internal/repository"
	"github.com/givehub/donation-platform/internal/services"
	"github.com/givehub/donation-platform/pkg/pg"
	"github.com/givehub/donation-platform/pkg/redis"
	"github.com/givehub/donation-platform/test/fixtures"
	"github.com/givehub/donation-platform/test/helpers"
)

type TestEnvironment struct {
	DB              *pg.DB
	Redis           *miniredis.Miniredis
	RedisAdapter    redis.RedisAdapter
	Queue           *queue.Queue
	DonationRepo    *repository.DonationRepository
	ProgramRepo     *repository.ProgramRepository
	NGORepo         *repository.NGORepository
	DonationService *services.DonationService
	Idempotency     *processor.IdempotencyService
}

func setupE2EEnvironment(t *testing.T) *TestEnvironment {
	db := helpers.SetupTestDB(t)
	mr, adapter := helpers.SetupTestRedis(t)

	queueConfig := queue.Config{
		Name:              "receipts:test",
		ConsumerGroup:     "receipt-senders",
		ConsumerName:      "test-consumer",
		MaxRetries:        3,
		VisibilityTimeout: 5 * time.Second,
		PollInterval:      50 * time.Millisecond,
		BatchSize:         10,
		MaxLen:            1000,
		EnableDLQ:         true,
	}

	q, err := queue.NewQueue(adapter, queueConfig)
	require.NoError(t, err)

	donationRepo := repository.NewDonationRepository(db)
	programRepo := repository.NewProgramRepository(db)
	ngoRepo := repository.NewNGORepository(db)

	donationService := services.NewDonationService(donationRepo, programRepo, q)
	idempotency := processor.NewIdempotencyService(adapter, processor.DefaultIdempotencyConfig())

	return &TestEnvironment{
		DB:              db,
		Redis:           mr,
		RedisAdapter:    adapter,
		Queue:           q,
		DonationRepo:    donationRepo,
		ProgramRepo:     programRepo,
		NGORepo:         ngoRepo,
		DonationService: donationService,
		Idempotency:     idempotency,
	}
}

func (env *TestEnvironment) Cleanup() {
	if env.Queue != nil {
		_ = env.Queue.Stop(5 * time.Second)
	}
	time.Sleep(100 * time.Millisecond)
	if env.Redis != nil {
		env.Redis.Close()
	}
}

func (env *TestEnvironment) createProgram(t *testing.T, goal *float64) *model.Program {
	ctx := context.Background()

	ngo, err := env.NGORepo.Create(ctx, fixtures.NewTestNGO("clearwater"))
	require.NoError(t, err)

	program, err := env.ProgramRepo.Create(ctx, fixtures.NewTestProgram(ngo.ID, "Community Wells", goal))
	require.NoError(t, err)
	return program
}

// countingSender counts relay calls and always reports delivery.
type countingSender struct {
	calls atomic.Int32
}

func (s *countingSender) SendReceipt(ctx context.Context, event *model.ReceiptEvent) (*notifier.DeliveryResponse, error) {
	s.calls.Add(1)
	now := time.Now()
	return &notifier.DeliveryResponse{
		EventID:     event.EventID,
		Status:      notifier.StatusDelivered,
		DeliveredAt: &now,
		RelayID:     "stub",
	}, nil
}

func TestE2E_DonationSubmissionPersistsAndEnqueues(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()
	program := env.createProgram(t, nil)

	donation, err := env.DonationService.Submit(ctx, fixtures.NewGuestDonationRequest(75.50, &program.ID))
	require.NoError(t, err)

	assert.NotZero(t, donation.ID)
	assert.Equal(t, model.PaymentStatusSuccess, donation.PaymentStatus)
	require.NotNil(t, donation.TransactionRef)
	assert.Len(t, *donation.TransactionRef, 16)

	// The stored row matches what the caller got back, minus any card data
	// which is never persisted.
	stored, err := env.DonationRepo.GetByID(ctx, donation.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.50, stored.Amount)
	assert.Equal(t, donation.TransactionRef, stored.TransactionRef)

	stats, err := env.Queue.GetStats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.TotalMessages, int64(1))
}

func TestE2E_RejectedDonationLeavesNoTrace(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()
	program := env.createProgram(t, nil)

	req := fixtures.NewGuestDonationRequest(50, &program.ID)
	req.CardNumber = "1234"

	donation, err := env.DonationService.Submit(ctx, req)
	assert.ErrorIs(t, err, services.ErrPaymentValidationFailed)
	assert.Nil(t, donation)

	_, total, err := env.DonationRepo.List(ctx, model.DonationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	stats, err := env.Queue.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalMessages)
}

func TestE2E_ReceiptDeliveredExactlyOnce(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()
	program := env.createProgram(t, nil)

	sender := &countingSender{}
	receiptProcessor := processor.NewReceiptProcessor(sender, env.Idempotency)

	err := env.Queue.Consume(func(ctx context.Context, msg *queue.Message) error {
		return receiptProcessor.Process(ctx, msg)
	})
	require.NoError(t, err)

	donation, err := env.DonationService.Submit(ctx, fixtures.NewGuestDonationRequest(120, &program.ID))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return sender.calls.Load() == 1
	}, 5*time.Second, 50*time.Millisecond)

	delivered, err := env.Idempotency.IsDelivered(ctx, *donation.TransactionRef)
	require.NoError(t, err)
	assert.True(t, delivered)

	// Republishing the same event simulates a queue redelivery; the
	// idempotency guard keeps the relay at one call.
	event := model.ReceiptEvent{
		EventID:        "replay",
		DonationID:     donation.ID,
		TransactionRef: *donation.TransactionRef,
		Amount:         donation.Amount,
		DonorEmail:     donation.DonorEmail,
		CreatedAt:      donation.CreatedAt,
	}
	_, err = env.Queue.PublishJSON(ctx, event, map[string]string{"event": "donation.receipt"})
	require.NoError(t, err)

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), sender.calls.Load())
}

func TestE2E_ProgramStatsReflectDonations(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()
	goal := 1000.0
	program := env.createProgram(t, &goal)

	registrationRepo := repository.NewRegistrationRepository(env.DB)
	programService := services.NewProgramService(env.ProgramRepo, env.DonationRepo, registrationRepo)

	_, err := env.DonationService.Submit(ctx, fixtures.NewGuestDonationRequest(150, &program.ID))
	require.NoError(t, err)
	_, err = env.DonationService.Submit(ctx, fixtures.NewGuestDonationRequest(100, &program.ID))
	require.NoError(t, err)

	stats, err := programService.GetStats(ctx, program.ID)
	require.NoError(t, err)

	assert.Equal(t, 250.0, stats.TotalDonations)
	assert.Equal(t, 25.0, stats.ProgressPercentage)
	assert.Equal(t, int64(0), stats.RegistrationCount)
}
