package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"gatehouse/internal/domain/service"
	"gatehouse/internal/errors"
)

// sessionKeyPrefix namespaces session bindings in the shared Redis instance.
const sessionKeyPrefix = "session:"

// redisSessionCache implements service.SessionCache over a Redis client.
// Bindings carry no TTL; they live until replaced by a newer login or
// deleted by revocation/logout.
type redisSessionCache struct {
	client *redis.Client
}

// NewSessionCache is the constructor for redisSessionCache.
func NewSessionCache(client *redis.Client) service.SessionCache {
	return &redisSessionCache{client: client}
}

// Get returns the active session token for the key, or ErrCacheMiss.
func (c *redisSessionCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, sessionKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", service.ErrCacheMiss
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to read session binding")
	}

	return value, nil
}

// Set binds a session token to the key, replacing any previous binding.
func (c *redisSessionCache) Set(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, sessionKeyPrefix+key, value, 0).Err(); err != nil {
		return errors.Wrap(err, "failed to write session binding")
	}

	return nil
}

// Delete removes the binding for the key.
func (c *redisSessionCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, sessionKeyPrefix+key).Err(); err != nil {
		return errors.Wrap(err, "failed to delete session binding")
	}

	return nil
}
