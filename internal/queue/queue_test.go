package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/givehub/donation-platform/pkg/redis"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Unique connection name per test to bypass the global adapter cache
	connName := t.Name() + "-" + mr.Addr()
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func TestQueue_PublishAndConsume(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := Config{
		Name:              "receipts:test",
		ConsumerGroup:     "receipt-senders",
		ConsumerName:      "test-consumer",
		MaxRetries:        3,
		VisibilityTimeout: 5 * time.Second,
		PollInterval:      100 * time.Millisecond,
		BatchSize:         10,
		MaxLen:            1000,
		EnableDLQ:         true,
	}

	q, err := NewQueue(adapter, config)
	require.NoError(t, err)

	t.Run("publish and consume message", func(t *testing.T) {
		ctx := context.Background()
		payload := map[string]string{"transaction_reference": "TXN-abc123def456"}

		_, err := q.PublishJSON(ctx, payload, map[string]string{"event": "donation.receipt"})
		require.NoError(t, err)

		received := make(chan bool, 1)
		handler := func(ctx context.Context, msg *Message) error {
			var data map[string]string
			err := json.Unmarshal(msg.Data, &data)
			assert.NoError(t, err)
			assert.Equal(t, "TXN-abc123def456", data["transaction_reference"])
			assert.Equal(t, "donation.receipt", msg.Metadata["event"])
			received <- true
			return nil
		}

		err = q.Consume(handler)
		require.NoError(t, err)

		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatal("message not received")
		}

		q.Stop(time.Second)
	})
}

func TestQueue_FailedHandlerLeavesMessagePending(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := Config{
		Name:              "receipts:retry:test",
		ConsumerGroup:     "receipt-senders",
		ConsumerName:      "test-consumer",
		MaxRetries:        2,
		VisibilityTimeout: 1 * time.Second,
		PollInterval:      100 * time.Millisecond,
		BatchSize:         10,
		EnableDLQ:         true,
	}

	q, err := NewQueue(adapter, config)
	require.NoError(t, err)
	defer q.Stop(time.Second)

	ctx := context.Background()
	_, err = q.PublishJSON(ctx, map[string]string{"test": "retry"}, nil)
	require.NoError(t, err)

	attempts := 0
	handler := func(ctx context.Context, msg *Message) error {
		attempts++
		return assert.AnError
	}

	err = q.Consume(handler)
	require.NoError(t, err)

	time.Sleep(500 * time.Millisecond)
	assert.GreaterOrEqual(t, attempts, 1)

	stats, err := q.GetStats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.PendingMessages, int64(1))
}

func TestQueue_ReclaimedMessageReachesDeadLetter(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := Config{
		Name:              "receipts:dlq:test",
		ConsumerGroup:     "receipt-senders",
		ConsumerName:      "test-consumer",
		MaxRetries:        2,
		VisibilityTimeout: 100 * time.Millisecond,
		// the test drives reads and reclaims itself
		PollInterval: time.Hour,
		BatchSize:    10,
		EnableDLQ:    true,
	}

	q, err := NewQueue(adapter, config)
	require.NoError(t, err)
	defer q.Stop(time.Second)

	handlerCalls := 0
	q.handler = func(ctx context.Context, msg *Message) error {
		handlerCalls++
		return assert.AnError
	}

	_, err = q.Publish(context.Background(), []byte(`{"n":1}`), nil)
	require.NoError(t, err)

	// First delivery fails and leaves the message pending.
	q.readNewMessages()
	assert.Equal(t, 1, handlerCalls)

	// Reclaimed with one delivery on record; fails again.
	mr.FastForward(time.Second)
	q.claimStuckMessages()
	assert.Equal(t, 2, handlerCalls)

	// The retry count has hit the limit; the next reclaim dead-letters the
	// message instead of handing it out again.
	mr.FastForward(time.Second)
	q.claimStuckMessages()
	assert.Equal(t, 2, handlerCalls)

	dlqLen, err := adapter.XLen(config.Name + ":dlq")
	require.NoError(t, err)
	assert.EqualValues(t, 1, dlqLen)

	stats, err := q.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.PendingMessages)
}

func TestQueue_GetStats(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := Config{
		Name:              "receipts:stats:test",
		ConsumerGroup:     "receipt-senders",
		ConsumerName:      "test-consumer",
		PollInterval:      100 * time.Millisecond,
		VisibilityTimeout: 5 * time.Second,
	}

	q, err := NewQueue(adapter, config)
	require.NoError(t, err)
	defer q.Stop(time.Second)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := q.PublishJSON(ctx, map[string]int{"count": i}, nil)
		require.NoError(t, err)
	}

	stats, err := q.GetStats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.TotalMessages, int64(5))
}

func TestMessage_Ack(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := Config{
		Name:              "receipts:ack:test",
		ConsumerGroup:     "receipt-senders",
		ConsumerName:      "test-consumer",
		PollInterval:      100 * time.Millisecond,
		VisibilityTimeout: 5 * time.Second,
	}

	q, err := NewQueue(adapter, config)
	require.NoError(t, err)
	defer q.Stop(time.Second)

	t.Run("ack marks message as processed", func(t *testing.T) {
		msgID, err := q.Publish(context.Background(), []byte(`{"a":1}`), nil)
		require.NoError(t, err)

		msg := &Message{ID: msgID, queue: q}
		err = msg.Ack()
		assert.NoError(t, err)
		assert.True(t, msg.acked)
	})

	t.Run("double ack fails", func(t *testing.T) {
		msg := &Message{ID: "1-0", acked: true, queue: q}
		err := msg.Ack()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already acknowledged")
	})
}

func TestNewQueue_RequiresName(t *testing.T) {
	_, adapter := setupTestRedis(t)

	_, err := NewQueue(adapter, Config{})
	assert.Error(t, err)

	q, err := NewQueue(adapter, Config{Name: "ok"})
	require.NoError(t, err)
	assert.NotNil(t, q)
	q.Stop(time.Second)
}

func TestQueue_ConcurrentPublish(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := Config{
		Name:              "receipts:concurrent:test",
		ConsumerGroup:     "receipt-senders",
		ConsumerName:      "test-consumer",
		PollInterval:      100 * time.Millisecond,
		VisibilityTimeout: 5 * time.Second,
	}

	q, err := NewQueue(adapter, config)
	require.NoError(t, err)
	defer q.Stop(time.Second)

	ctx := context.Background()
	numGoroutines := 10
	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			_, err := q.PublishJSON(ctx, map[string]int{"id": id}, nil)
			assert.NoError(t, err)
			done <- true
		}(i)
	}
	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	stats, err := q.GetStats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.TotalMessages, int64(numGoroutines))
}

func TestQueue_Stop(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := Config{
		Name:              "receipts:stop:test",
		ConsumerGroup:     "receipt-senders",
		ConsumerName:      "test-consumer",
		PollInterval:      100 * time.Millisecond,
		VisibilityTimeout: 5 * time.Second,
	}

	q, err := NewQueue(adapter, config)
	require.NoError(t, err)

	handler := func(ctx context.Context, msg *Message) error {
		time.Sleep(100 * time.Millisecond)
		return nil
	}
	err = q.Consume(handler)
	require.NoError(t, err)

	err = q.Stop(2 * time.Second)
	assert.NoError(t, err)
}
