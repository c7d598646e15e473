package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a cache shared between instances.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// RedisOption configures a Redis cache.
type RedisOption func(*Redis)

// WithKeyPrefix namespaces every key.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

// WithLogger sets the logger used for transport errors.
func WithLogger(logger *slog.Logger) RedisOption {
	return func(r *Redis) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRedis returns a Redis cache whose entries expire after ttl.
func NewRedis(client *redis.Client, ttl time.Duration, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		ttl:    ttl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Get(ctx context.Context, code string) (string, bool) {
	v, err := r.client.Get(ctx, r.key(code)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.WarnContext(ctx, "cache get failed", "code", code, "error", err)
		}
		return "", false
	}
	return v, true
}

func (r *Redis) Set(ctx context.Context, code, longURL string) {
	if err := r.client.Set(ctx, r.key(code), longURL, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "cache set failed", "code", code, "error", err)
	}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) key(code string) string {
	return r.prefix + code
}
