package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// FlagClient resolves feature flags from Redis keys. Every lookup is a
// fresh GET so flag changes take effect on the very next call; there is no
// client-side caching. A missing key or an unreachable server resolves to
// the caller's default.
type FlagClient struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewFlagClient creates a new Redis-backed flag client
func NewFlagClient(addrs []string, password, keyPrefix string) *FlagClient {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       addrs,
		Password:    password,
		MaxRetries:  3,
		PoolSize:    10,
		PoolTimeout: 30 * time.Second,
	})

	return &FlagClient{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// GetBool resolves a boolean flag, falling back to defaultValue when the
// key is absent, unparsable, or Redis is unavailable
func (c *FlagClient) GetBool(ctx context.Context, name string, defaultValue bool) bool {
	val, err := c.client.Get(ctx, c.keyPrefix+name).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("flag", name).Msg("Flag lookup failed, using default")
		}
		return defaultValue
	}

	parsed, err := strconv.ParseBool(val)
	if err != nil {
		log.Warn().Str("flag", name).Str("value", val).Msg("Flag value is not a boolean, using default")
		return defaultValue
	}

	return parsed
}

// GetInt resolves an integer flag, falling back to defaultValue when the
// key is absent, unparsable, or Redis is unavailable
func (c *FlagClient) GetInt(ctx context.Context, name string, defaultValue int) int {
	val, err := c.client.Get(ctx, c.keyPrefix+name).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("flag", name).Msg("Flag lookup failed, using default")
		}
		return defaultValue
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		log.Warn().Str("flag", name).Str("value", val).Msg("Flag value is not an integer, using default")
		return defaultValue
	}

	return parsed
}

// Ping checks the Redis connection
func (c *FlagClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying Redis client
func (c *FlagClient) Close() error {
	return c.client.Close()
}
