package processor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/notifier"
	"github.com/givehub/donation-platform/internal/queue"
)

// stubSender records delivery attempts and answers with a scripted result.
type stubSender struct {
	calls    int
	response *notifier.DeliveryResponse
	err      error
}

func (s *stubSender) SendReceipt(ctx context.Context, event *model.ReceiptEvent) (*notifier.DeliveryResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func deliveredResponse() *notifier.DeliveryResponse {
	now := time.Now()
	return &notifier.DeliveryResponse{
		EventID:     "evt-1",
		Status:      notifier.StatusDelivered,
		DeliveredAt: &now,
		RelayID:     "primary",
	}
}

func receiptMessage(t *testing.T, event model.ReceiptEvent) *queue.Message {
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return &queue.Message{Data: data}
}

func testEvent(ref string) model.ReceiptEvent {
	return model.ReceiptEvent{
		EventID:        "evt-1",
		DonationID:     7,
		TransactionRef: ref,
		Amount:         120.00,
		CauseName:      "Clean Water",
		DonorName:      "Jordan Reyes",
		DonorEmail:     "jordan@example.com",
		CreatedAt:      time.Now().Add(-2 * time.Second),
	}
}

func TestReceiptProcessor_DeliversAndMarks(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	idem := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	sender := &stubSender{response: deliveredResponse()}
	p := NewReceiptProcessor(sender, idem)

	event := testEvent("TXN-proc11112222")
	err := p.Process(context.Background(), receiptMessage(t, event))
	require.NoError(t, err)
	assert.Equal(t, 1, sender.calls)

	delivered, err := idem.IsDelivered(context.Background(), event.TransactionRef)
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestReceiptProcessor_SkipsAlreadyDelivered(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	idem := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	sender := &stubSender{response: deliveredResponse()}
	p := NewReceiptProcessor(sender, idem)

	event := testEvent("TXN-proc22223333")
	msg := receiptMessage(t, event)

	require.NoError(t, p.Process(context.Background(), msg))
	require.NoError(t, p.Process(context.Background(), msg))

	// The second delivery of the same transaction reference never reaches
	// the relay.
	assert.Equal(t, 1, sender.calls)
}

func TestReceiptProcessor_SenderFailureLeavesRetryable(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	idem := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	sender := &stubSender{err: errors.New("relay unreachable")}
	p := NewReceiptProcessor(sender, idem)

	event := testEvent("TXN-proc33334444")
	err := p.Process(context.Background(), receiptMessage(t, event))
	require.Error(t, err)

	delivered, err := idem.IsDelivered(context.Background(), event.TransactionRef)
	require.NoError(t, err)
	assert.False(t, delivered)

	count, err := idem.GetAttemptCount(context.Background(), event.TransactionRef)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReceiptProcessor_AbandonsAfterMaxAttempts(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := DefaultIdempotencyConfig()
	config.MaxAttempts = 2
	idem := NewIdempotencyService(adapter, config)
	sender := &stubSender{err: errors.New("relay unreachable")}
	p := NewReceiptProcessor(sender, idem)

	event := testEvent("TXN-proc44445555")
	msg := receiptMessage(t, event)

	require.Error(t, p.Process(context.Background(), msg))
	require.Error(t, p.Process(context.Background(), msg))

	// Attempt budget spent: the processor acks without calling the relay.
	err := p.Process(context.Background(), msg)
	assert.NoError(t, err)
	assert.Equal(t, 2, sender.calls)
}

func TestReceiptProcessor_InvalidPayload(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	idem := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	sender := &stubSender{response: deliveredResponse()}
	p := NewReceiptProcessor(sender, idem)

	err := p.Process(context.Background(), &queue.Message{Data: []byte("not json")})
	assert.Error(t, err)
	assert.Equal(t, 0, sender.calls)
}

func TestReceiptProcessor_MissingTransactionRefIsDropped(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	idem := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	sender := &stubSender{response: deliveredResponse()}
	p := NewReceiptProcessor(sender, idem)

	event := testEvent("")
	err := p.Process(context.Background(), receiptMessage(t, event))
	assert.NoError(t, err)
	assert.Equal(t, 0, sender.calls)
}

func TestReceiptProcessor_NonDeliveredStatusIsFailure(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	idem := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	sender := &stubSender{response: &notifier.DeliveryResponse{
		EventID: "evt-1",
		Status:  notifier.StatusFailed,
		RelayID: "primary",
	}}
	p := NewReceiptProcessor(sender, idem)

	event := testEvent("TXN-proc55556666")
	err := p.Process(context.Background(), receiptMessage(t, event))
	require.Error(t, err)

	count, err := idem.GetAttemptCount(context.Background(), event.TransactionRef)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
