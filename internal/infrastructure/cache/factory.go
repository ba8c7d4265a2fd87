package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bizsuite/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Backend is the cache layer chosen at startup. Client is nil when the
// process runs on in-memory caches.
type Backend struct {
	Client      *redis.Client
	Memberships MembershipCache
}

// Close releases the Redis connection, if any.
func (b *Backend) Close() error {
	if b.Client == nil {
		return nil
	}
	return b.Client.Close()
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  timeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewBackend uses Redis when it is enabled and reachable, and falls back
// to in-memory caches otherwise.
func NewBackend(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Enabled {
		client, err := NewRedisClient(ctx, cfg)
		if err == nil {
			logger.Info("using Redis cache", zap.String("host", cfg.Host), zap.Int("port", cfg.Port))
			return &Backend{
				Client:      client,
				Memberships: NewRedisMembershipCache(client, cfg.KeyPrefix, cfg.MembershipTTL),
			}
		}
		logger.Warn("Redis unavailable, falling back to in-memory cache. "+
			"Membership changes may take up to the cache TTL to reach other instances.",
			zap.Error(err),
		)
	}
	return &Backend{Memberships: NewInMemoryMembershipCache(cfg.MembershipTTL)}
}
