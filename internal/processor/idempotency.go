package processor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/givehub/donation-platform/pkg/logger"
	"github.com/givehub/donation-platform/pkg/redis"
)

var (
	ErrAlreadyDelivered    = errors.New("receipt already delivered")
	ErrLockAcquireFailed   = errors.New("failed to acquire delivery lock")
	ErrMaxAttemptsExceeded = errors.New("maximum delivery attempts exceeded")
)

type IdempotencyConfig struct {
	// LockTTL bounds how long a crashed consumer can hold a delivery lock.
	LockTTL time.Duration

	// DeliveredTTL is how long the delivered marker is kept. Redelivery of
	// the same transaction reference inside this window is a no-op.
	DeliveredTTL time.Duration

	MaxAttempts int

	AttemptKeyPrefix   string
	LockKeyPrefix      string
	DeliveredKeyPrefix string
}

func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		LockTTL:            30 * time.Second,
		DeliveredTTL:       24 * time.Hour,
		MaxAttempts:        3,
		AttemptKeyPrefix:   "receipt:attempt:",
		LockKeyPrefix:      "receipt:lock:",
		DeliveredKeyPrefix: "receipt:delivered:",
	}
}

// IdempotencyService guards receipt delivery with redis so that at-least-once
// queue semantics never produce duplicate receipt emails. Keys are the
// donation's transaction reference.
type IdempotencyService struct {
	redis  redis.RedisAdapter
	config IdempotencyConfig
}

func NewIdempotencyService(redisAdapter redis.RedisAdapter, config IdempotencyConfig) *IdempotencyService {
	return &IdempotencyService{
		redis:  redisAdapter,
		config: config,
	}
}

type DeliveryContext struct {
	TransactionRef string
	AttemptCount   int
	IsRetry        bool
	lockAcquired   bool
	service        *IdempotencyService
}

// AcquireDeliveryLock claims the transaction reference for this consumer.
// It fails fast when the receipt was already delivered, when the attempt
// budget is spent, or when another consumer holds the lock.
func (s *IdempotencyService) AcquireDeliveryLock(ctx context.Context, transactionRef string) (*DeliveryContext, error) {
	deliveredKey := s.config.DeliveredKeyPrefix + transactionRef
	exists, err := s.redis.Exist(deliveredKey)
	if err != nil {
		// A failed check must not block delivery; a duplicate receipt beats
		// a missing one.
		logger.Warn("failed to check delivered marker", "transaction_reference", transactionRef, "error", err)
	} else if exists > 0 {
		return nil, ErrAlreadyDelivered
	}

	attempts, err := s.GetAttemptCount(ctx, transactionRef)
	if err != nil {
		logger.Warn("failed to read attempt counter", "transaction_reference", transactionRef, "error", err)
		attempts = 0
	}

	if attempts >= s.config.MaxAttempts {
		logger.Error("delivery attempts exhausted",
			"transaction_reference", transactionRef,
			"attempts", attempts,
		)
		return nil, fmt.Errorf("%w: transaction_reference=%s, attempts=%d", ErrMaxAttemptsExceeded, transactionRef, attempts)
	}

	lockKey := s.config.LockKeyPrefix + transactionRef
	lockValue := []byte(strconv.FormatInt(time.Now().UnixNano(), 10))

	acquired, err := s.redis.SetNX(lockKey, lockValue, s.config.LockTTL)
	if err != nil {
		logger.Error("failed to acquire delivery lock", "transaction_reference", transactionRef, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)
	}
	if !acquired {
		return nil, ErrLockAcquireFailed
	}

	return &DeliveryContext{
		TransactionRef: transactionRef,
		AttemptCount:   attempts,
		IsRetry:        attempts > 0,
		lockAcquired:   true,
		service:        s,
	}, nil
}

// MarkDelivered sets the long-term delivered marker and releases the lock
// and the attempt counter.
func (s *IdempotencyService) MarkDelivered(ctx context.Context, dc *DeliveryContext) error {
	deliveredKey := s.config.DeliveredKeyPrefix + dc.TransactionRef
	if err := s.redis.Set(deliveredKey, []byte("1"), s.config.DeliveredTTL); err != nil {
		logger.Error("failed to set delivered marker", "transaction_reference", dc.TransactionRef, "error", err)
		return fmt.Errorf("failed to mark as delivered: %w", err)
	}

	s.cleanup(dc)

	logger.Info("receipt marked delivered",
		"transaction_reference", dc.TransactionRef,
		"attempts", dc.AttemptCount,
	)
	return nil
}

// MarkFailed bumps the attempt counter and releases the lock so the next
// queue redelivery can try again.
func (s *IdempotencyService) MarkFailed(ctx context.Context, dc *DeliveryContext, reason error) error {
	attemptKey := s.config.AttemptKeyPrefix + dc.TransactionRef
	nextAttempt := dc.AttemptCount + 1

	if err := s.redis.Set(attemptKey, []byte(strconv.Itoa(nextAttempt)), s.config.DeliveredTTL); err != nil {
		logger.Error("failed to bump attempt counter", "transaction_reference", dc.TransactionRef, "error", err)
	}

	lockKey := s.config.LockKeyPrefix + dc.TransactionRef
	if err := s.redis.Del(lockKey); err != nil {
		logger.Warn("failed to remove delivery lock", "transaction_reference", dc.TransactionRef, "error", err)
	}
	dc.lockAcquired = false

	logger.Warn("receipt delivery failed, will retry",
		"transaction_reference", dc.TransactionRef,
		"attempts", nextAttempt,
		"max_attempts", s.config.MaxAttempts,
		"reason", reason,
	)
	return nil
}

// ReleaseLock frees the lock without touching the attempt counter. Used
// when a consumer exits before reaching a verdict.
func (s *IdempotencyService) ReleaseLock(ctx context.Context, dc *DeliveryContext) error {
	if dc == nil || !dc.lockAcquired {
		return nil
	}

	lockKey := s.config.LockKeyPrefix + dc.TransactionRef
	if err := s.redis.Del(lockKey); err != nil {
		logger.Warn("failed to release delivery lock", "transaction_reference", dc.TransactionRef, "error", err)
		return err
	}

	dc.lockAcquired = false
	return nil
}

func (s *IdempotencyService) cleanup(dc *DeliveryContext) {
	lockKey := s.config.LockKeyPrefix + dc.TransactionRef
	if err := s.redis.Del(lockKey); err != nil {
		logger.Warn("failed to cleanup delivery lock", "transaction_reference", dc.TransactionRef, "error", err)
	}

	attemptKey := s.config.AttemptKeyPrefix + dc.TransactionRef
	if err := s.redis.Del(attemptKey); err != nil {
		logger.Warn("failed to cleanup attempt counter", "transaction_reference", dc.TransactionRef, "error", err)
	}

	dc.lockAcquired = false
}

func (s *IdempotencyService) GetAttemptCount(ctx context.Context, transactionRef string) (int, error) {
	attemptKey := s.config.AttemptKeyPrefix + transactionRef
	raw, err := s.redis.Get(attemptKey)
	if err != nil {
		if err == redis.NilError {
			return 0, nil
		}
		return 0, err
	}

	attempts, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, nil
	}
	return attempts, nil
}

func (s *IdempotencyService) IsDelivered(ctx context.Context, transactionRef string) (bool, error) {
	deliveredKey := s.config.DeliveredKeyPrefix + transactionRef
	exists, err := s.redis.Exist(deliveredKey)
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
