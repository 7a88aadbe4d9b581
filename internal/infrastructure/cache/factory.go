package cache

import (
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/config"

	"go.uber.org/zap"
)

// IdempotencyStoreFactory creates idempotency stores based on configuration
type IdempotencyStoreFactory struct {
	logger           *zap.Logger
	inMemoryFallback bool
}

// FactoryOption configures the factory
type FactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger used for store creation diagnostics
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback enables falling back to the in-memory store
// when Redis is unreachable
func WithInMemoryFallback(enabled bool) FactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.inMemoryFallback = enabled
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(opts ...FactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		logger:           zap.NewNop(),
		inMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore creates an idempotency store. Redis is preferred when
// enabled; otherwise, or on connection failure with fallback enabled,
// an in-memory store is returned. In-memory state does not survive a
// restart, so a restarted instance may re-check orders against the
// durable dedup index instead.
func (f *IdempotencyStoreFactory) CreateStore(cfg config.RedisConfig) (shared.IdempotencyStore, error) {
	if !cfg.Enabled {
		f.logger.Info("Redis disabled, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	store, err := NewRedisIdempotencyStore(RedisOptions{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		if !f.inMemoryFallback {
			return nil, err
		}
		f.logger.Warn("failed to connect to Redis, falling back to in-memory idempotency store",
			zap.Error(err))
		return NewInMemoryIdempotencyStore(), nil
	}

	f.logger.Info("using Redis idempotency store",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port))
	return store, nil
}
