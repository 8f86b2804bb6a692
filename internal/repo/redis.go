package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// redisKV is the Redis implementation of KV. An optional prefix namespaces
// every key (e.g. "travelmate:" → "travelmate:trips").
type redisKV struct {
	client redis.Cmdable
	prefix string
}

// NewRedisKV constructs a KV backed by client. Values never expire.
func NewRedisKV(client redis.Cmdable, prefix string) KV {
	return &redisKV{client: client, prefix: prefix}
}

// Get returns the JSON document stored under key.
func (r *redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("repo.redisKV.Get %q: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.redisKV.Get %q: %w", key, err)
	}
	return b, nil
}

// Set stores value under key with no expiry.
func (r *redisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("repo.redisKV.Set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (r *redisKV) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("repo.redisKV.Remove %q: %w", key, err)
	}
	return nil
}
