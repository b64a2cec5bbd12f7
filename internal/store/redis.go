package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klauern/hookgate/internal/constants"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps properties as fields of a single Redis hash.
type RedisStore struct {
	client *redis.Client
	hash   string
}

// OpenRedisStore connects using cfg.DSN (a redis:// URL) or cfg.RedisAddr and
// verifies the connection.
func OpenRedisStore(ctx context.Context, cfg Config) (*RedisStore, error) {
	var opts *redis.Options
	if cfg.DSN != "" {
		parsed, err := redis.ParseURL(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		if cfg.RedisAddr == "" {
			return nil, errors.New("redis property store requires a dsn or redisAddr")
		}
		opts = &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStore(rdb, constants.RedisPropertiesHash), nil
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client, hash string) *RedisStore {
	return &RedisStore{client: client, hash: hash}
}

// GetGlobalProperty returns the stored value
func (r *RedisStore) GetGlobalProperty(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to HGET %s %s: %w", r.hash, key, err)
	}
	return v, true, nil
}

// SetGlobalProperty stores value under key
func (r *RedisStore) SetGlobalProperty(ctx context.Context, key, value string) error {
	if err := r.client.HSet(ctx, r.hash, key, value).Err(); err != nil {
		return fmt.Errorf("failed to HSET %s %s: %w", r.hash, key, err)
	}
	return nil
}

// DeleteGlobalProperty removes key
func (r *RedisStore) DeleteGlobalProperty(ctx context.Context, key string) error {
	if err := r.client.HDel(ctx, r.hash, key).Err(); err != nil {
		return fmt.Errorf("failed to HDEL %s %s: %w", r.hash, key, err)
	}
	return nil
}

// Close gracefully closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
