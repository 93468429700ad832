package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/printpay/receivables/internal/domain/shared"
)

const defaultLockTTL = 10 * time.Second

// ErrLockTimeout is returned when the invoice lock could not be acquired
// before the context ended.
var ErrLockTimeout = shared.NewConflictError("LOCK_TIMEOUT", "Invoice is being updated, try again")

// releaseScript deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisInvoiceLocker serializes invoice writes across instances with a
// SET NX lock per invoice. Locks expire after the TTL so a crashed holder
// cannot block an invoice forever.
type RedisInvoiceLocker struct {
	client     redis.UniversalClient
	keyPrefix  string
	ttl        time.Duration
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewRedisInvoiceLocker creates a locker on an existing client
func NewRedisInvoiceLocker(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisInvoiceLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisInvoiceLocker{
		client:     client,
		keyPrefix:  "receivables:lock:invoice:",
		ttl:        ttl,
		retryDelay: 25 * time.Millisecond,
		logger:     logger,
	}
}

func (l *RedisInvoiceLocker) key(tenantID, invoiceID uuid.UUID) string {
	return l.keyPrefix + tenantID.String() + ":" + invoiceID.String()
}

// Lock blocks until the invoice lock is held or ctx ends
func (l *RedisInvoiceLocker) Lock(ctx context.Context, tenantID, invoiceID uuid.UUID) (func(), error) {
	key := l.key(tenantID, invoiceID)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrLockTimeout
			}
			return nil, fmt.Errorf("failed to acquire invoice lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(l.retryDelay):
		}
	}

	return func() {
		// release must outlive a cancelled request context
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Warn("Failed to release invoice lock",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}, nil
}
