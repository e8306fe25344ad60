package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/acadreg/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultCascadeLockKey = "tuition:cascade:lock"

// releaseScript deletes the lock only when it still holds our token, so a
// cascade that outlives the TTL cannot release a lock acquired by another
// process in the meantime.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCascadeLock serializes fee cascades across instances using a Redis
// SETNX lock with a TTL. The TTL bounds how long a crashed cascade can
// block subsequent settings updates.
type RedisCascadeLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisCascadeLock creates a Redis-backed cascade lock
func NewRedisCascadeLock(cfg config.RedisConfig, ttl time.Duration) (*RedisCascadeLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCascadeLock{
		client: client,
		key:    defaultCascadeLockKey,
		ttl:    ttl,
	}, nil
}

// NewRedisCascadeLockWithClient creates a lock with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisCascadeLockWithClient(client *redis.Client, key string, ttl time.Duration) *RedisCascadeLock {
	if key == "" {
		key = defaultCascadeLockKey
	}
	return &RedisCascadeLock{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// TryAcquire attempts to take the lock without blocking. On success it
// returns a release func that must be called once the cascade finishes.
// acquired is false when another cascade currently holds the lock.
func (l *RedisCascadeLock) TryAcquire(ctx context.Context) (release func(), acquired bool, err error) {
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire cascade lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func() {
		// Release must not inherit a cancelled request context
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{l.key}, token).Err()
	}
	return release, true, nil
}

// Close closes the Redis client
func (l *RedisCascadeLock) Close() error {
	return l.client.Close()
}

// InMemoryCascadeLock serializes fee cascades within a single process.
// Suitable for single-instance deployments and testing.
type InMemoryCascadeLock struct {
	held int32
}

// NewInMemoryCascadeLock creates an in-process cascade lock
func NewInMemoryCascadeLock() *InMemoryCascadeLock {
	return &InMemoryCascadeLock{}
}

// TryAcquire attempts to take the lock without blocking. The returned
// release func is safe to call more than once.
func (l *InMemoryCascadeLock) TryAcquire(ctx context.Context) (release func(), acquired bool, err error) {
	if !atomic.CompareAndSwapInt32(&l.held, 0, 1) {
		return nil, false, nil
	}
	var once sync.Once
	return func() {
		once.Do(func() { atomic.StoreInt32(&l.held, 0) })
	}, true, nil
}
