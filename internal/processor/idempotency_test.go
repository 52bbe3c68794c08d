package processor

import (
	"context"
	"errors"
	"testing"

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

func TestIdempotency_FirstAttempt(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	service := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	ctx := context.Background()

	dc, err := service.AcquireDeliveryLock(ctx, "TXN-aaaa11112222")
	require.NoError(t, err)
	require.NotNil(t, dc)

	assert.Equal(t, "TXN-aaaa11112222", dc.TransactionRef)
	assert.Equal(t, 0, dc.AttemptCount)
	assert.False(t, dc.IsRetry)
	assert.True(t, dc.lockAcquired)
}

func TestIdempotency_ConcurrentConsumersBlocked(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	service := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	ctx := context.Background()
	ref := "TXN-bbbb11112222"

	dc1, err := service.AcquireDeliveryLock(ctx, ref)
	require.NoError(t, err)

	dc2, err := service.AcquireDeliveryLock(ctx, ref)
	assert.ErrorIs(t, err, ErrLockAcquireFailed)
	assert.Nil(t, dc2)

	assert.True(t, dc1.lockAcquired)
}

func TestIdempotency_MarkDelivered(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	service := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	ctx := context.Background()
	ref := "TXN-cccc11112222"

	dc, err := service.AcquireDeliveryLock(ctx, ref)
	require.NoError(t, err)

	require.NoError(t, service.MarkDelivered(ctx, dc))

	delivered, err := service.IsDelivered(ctx, ref)
	require.NoError(t, err)
	assert.True(t, delivered)

	// Redelivery of the same transaction reference is rejected.
	dc2, err := service.AcquireDeliveryLock(ctx, ref)
	assert.ErrorIs(t, err, ErrAlreadyDelivered)
	assert.Nil(t, dc2)
}

func TestIdempotency_MarkFailedBumpsAttempts(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	service := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	ctx := context.Background()
	ref := "TXN-dddd11112222"

	dc1, err := service.AcquireDeliveryLock(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 0, dc1.AttemptCount)

	require.NoError(t, service.MarkFailed(ctx, dc1, errors.New("relay down")))

	dc2, err := service.AcquireDeliveryLock(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 1, dc2.AttemptCount)
	assert.True(t, dc2.IsRetry)
}

func TestIdempotency_MaxAttemptsExceeded(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	config := DefaultIdempotencyConfig()
	config.MaxAttempts = 2
	service := NewIdempotencyService(adapter, config)
	ctx := context.Background()
	ref := "TXN-eeee11112222"

	for i := 0; i < config.MaxAttempts; i++ {
		dc, err := service.AcquireDeliveryLock(ctx, ref)
		require.NoError(t, err)
		require.NoError(t, service.MarkFailed(ctx, dc, errors.New("relay down")))
	}

	dc, err := service.AcquireDeliveryLock(ctx, ref)
	assert.ErrorIs(t, err, ErrMaxAttemptsExceeded)
	assert.Nil(t, dc)
}

func TestIdempotency_ReleaseLock(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	service := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	ctx := context.Background()
	ref := "TXN-ffff11112222"

	dc, err := service.AcquireDeliveryLock(ctx, ref)
	require.NoError(t, err)

	require.NoError(t, service.ReleaseLock(ctx, dc))
	assert.False(t, dc.lockAcquired)

	// Lock released without a verdict: attempt count unchanged.
	dc2, err := service.AcquireDeliveryLock(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 0, dc2.AttemptCount)
}

func TestIdempotency_GetAttemptCount(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	service := NewIdempotencyService(adapter, DefaultIdempotencyConfig())
	ctx := context.Background()
	ref := "TXN-000011112222"

	count, err := service.GetAttemptCount(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	dc, err := service.AcquireDeliveryLock(ctx, ref)
	require.NoError(t, err)
	require.NoError(t, service.MarkFailed(ctx, dc, errors.New("relay down")))

	count, err = service.GetAttemptCount(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
