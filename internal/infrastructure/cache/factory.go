package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/printpay/receivables/internal/infrastructure/config"
)

// InvoiceLocker is implemented by both lockers
type InvoiceLocker interface {
	Lock(ctx context.Context, tenantID, invoiceID uuid.UUID) (func(), error)
}

// LockerFactory creates invoice lockers based on configuration
type LockerFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration
}

// LockerFactoryOption is a functional option for configuring the factory
type LockerFactoryOption func(*LockerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory locker
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithPingTimeout bounds the Redis connectivity check
func WithPingTimeout(d time.Duration) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.pingTimeout = d
	}
}

// NewLockerFactory creates a new factory
func NewLockerFactory(cfg config.RedisConfig, opts ...LockerFactoryOption) *LockerFactory {
	f := &LockerFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           5 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRedisClient connects to Redis and verifies the connection
func (f *LockerFactory) NewRedisClient(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.RedisAddr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, f.pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// CreateLocker returns a Redis locker when Redis is enabled and reachable,
// otherwise an in-memory locker if fallback is allowed. The returned close
// func releases the Redis client, if any.
func (f *LockerFactory) CreateLocker(ctx context.Context) (InvoiceLocker, func() error, error) {
	noop := func() error { return nil }
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory invoice locker")
		return NewInMemoryInvoiceLocker(), noop, nil
	}

	client, err := f.NewRedisClient(ctx)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, nil, err
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory invoice locker",
			zap.String("addr", f.redisConfig.RedisAddr()),
			zap.Error(err),
		)
		return NewInMemoryInvoiceLocker(), noop, nil
	}

	f.logger.Info("Using Redis invoice locker", zap.String("addr", f.redisConfig.RedisAddr()))
	return NewRedisInvoiceLocker(client, f.redisConfig.LockTTL, f.logger), client.Close, nil
}

var (
	_ InvoiceLocker = (*RedisInvoiceLocker)(nil)
	_ InvoiceLocker = (*InMemoryInvoiceLocker)(nil)
)
