package processor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/notifier"
	"github.com/givehub/donation-platform/internal/queue"
	"github.com/givehub/donation-platform/pkg/logger"
	"github.com/givehub/donation-platform/pkg/prom"
)

// ReceiptSender delivers a receipt event to the mail relay.
type ReceiptSender interface {
	SendReceipt(ctx context.Context, event *model.ReceiptEvent) (*notifier.DeliveryResponse, error)
}

// ReceiptProcessor consumes receipt events off the queue and delivers them
// exactly once per transaction reference.
type ReceiptProcessor struct {
	sender      ReceiptSender
	idempotency *IdempotencyService
}

func NewReceiptProcessor(sender ReceiptSender, idempotency *IdempotencyService) *ReceiptProcessor {
	return &ReceiptProcessor{
		sender:      sender,
		idempotency: idempotency,
	}
}

func (p *ReceiptProcessor) GetType() string {
	return "receipt"
}

// Process handles one queue message. Returning nil acks the message;
// returning an error leaves it pending for redelivery.
func (p *ReceiptProcessor) Process(ctx context.Context, queueMessage *queue.Message) error {
	var event model.ReceiptEvent
	if err := json.Unmarshal(queueMessage.Data, &event); err != nil {
		logger.Error("failed to unmarshal receipt event", "error", err)
		return err
	}

	if event.TransactionRef == "" {
		// A receipt without a transaction reference cannot be deduplicated
		// or delivered meaningfully. Ack and drop.
		logger.Error("receipt event missing transaction reference", "event_id", event.EventID)
		return nil
	}

	dc, err := p.idempotency.AcquireDeliveryLock(ctx, event.TransactionRef)
	if err != nil {
		if errors.Is(err, ErrAlreadyDelivered) {
			logger.Info("receipt already delivered, skipping",
				"transaction_reference", event.TransactionRef)
			return nil
		}
		if errors.Is(err, ErrMaxAttemptsExceeded) {
			// Give up and ack so the message lands in the dead letter
			// stream instead of cycling forever.
			prom.AddReceiptDeliveryDuration(time.Since(event.CreatedAt).Seconds(), "abandoned")
			return nil
		}
		if errors.Is(err, ErrLockAcquireFailed) {
			return errors.New("delivery lock held by another consumer")
		}
		return err
	}

	defer func() {
		if dc.lockAcquired {
			p.idempotency.ReleaseLock(ctx, dc)
		}
	}()

	logger.Info("delivering receipt",
		"transaction_reference", event.TransactionRef,
		"event_id", event.EventID,
		"attempt_count", dc.AttemptCount,
		"is_retry", dc.IsRetry,
	)

	res, err := p.sender.SendReceipt(ctx, &event)
	if err != nil {
		if markErr := p.idempotency.MarkFailed(ctx, dc, err); markErr != nil {
			logger.Error("failed to record delivery failure",
				"transaction_reference", event.TransactionRef, "error", markErr)
		}
		prom.AddReceiptDeliveryDuration(time.Since(event.CreatedAt).Seconds(), "failed")
		return err
	}

	if res.Status != notifier.StatusDelivered {
		err := errors.New("relay returned non-delivered status")
		if markErr := p.idempotency.MarkFailed(ctx, dc, err); markErr != nil {
			logger.Error("failed to record delivery failure",
				"transaction_reference", event.TransactionRef, "error", markErr)
		}
		prom.AddReceiptDeliveryDuration(time.Since(event.CreatedAt).Seconds(), "failed")
		return err
	}

	prom.AddReceiptDeliveryDuration(time.Since(event.CreatedAt).Seconds(), "delivered")

	if markErr := p.idempotency.MarkDelivered(ctx, dc); markErr != nil {
		// The receipt went out; a failed marker only risks one duplicate.
		logger.Error("failed to set delivered marker",
			"transaction_reference", event.TransactionRef, "error", markErr)
	}

	return nil
}
