package cache

import (
	"fmt"
	"time"

	apptuition "github.com/acadreg/backend/internal/application/tuition"
	"github.com/acadreg/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CascadeLockFactory creates cascade locks based on configuration
type CascadeLockFactory struct {
	redisConfig           config.RedisConfig
	lockTTL               time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CascadeLockFactoryOption is a functional option for configuring the factory
type CascadeLockFactoryOption func(*CascadeLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CascadeLockFactoryOption {
	return func(f *CascadeLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-process lock
// when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) CascadeLockFactoryOption {
	return func(f *CascadeLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCascadeLockFactory creates a new factory
func NewCascadeLockFactory(cfg config.RedisConfig, lockTTL time.Duration, opts ...CascadeLockFactoryOption) *CascadeLockFactory {
	f := &CascadeLockFactory{
		redisConfig:           cfg,
		lockTTL:               lockTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisLock creates a Redis-backed cascade lock
func (f *CascadeLockFactory) CreateRedisLock() (apptuition.CascadeLock, error) {
	lock, err := NewRedisCascadeLock(f.redisConfig, f.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cascade lock: %w", err)
	}
	return lock, nil
}

// CreateInMemoryLock creates an in-process cascade lock
// WARNING: in-process locks do not serialize cascades across instances,
// so concurrent settings updates on different instances can both proceed
func (f *CascadeLockFactory) CreateInMemoryLock() apptuition.CascadeLock {
	return NewInMemoryCascadeLock()
}

// CreateLock creates a cascade lock based on whether Redis is available.
// It tries Redis first and falls back to in-process when Redis is not
// reachable and AllowInMemoryFallback is true.
func (f *CascadeLockFactory) CreateLock() (apptuition.CascadeLock, error) {
	lock, err := f.CreateRedisLock()
	if err == nil {
		f.logger.Info("using Redis cascade lock")
		return lock, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for cascade lock but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-process cascade lock. "+
		"Concurrent settings updates across instances will not be serialized.",
		zap.Error(err),
	)
	return f.CreateInMemoryLock(), nil
}

// Ensure both lock implementations satisfy the application contract
var (
	_ apptuition.CascadeLock   = (*RedisCascadeLock)(nil)
	_ apptuition.CascadeLock   = (*InMemoryCascadeLock)(nil)
	_ apptuition.SettingsCache = (*InMemorySettingsCache)(nil)
)
