package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:"

// incrementScript bumps the counter and starts the window expiry on the first hit.
var incrementScript = redis.NewScript(`
local hits = redis.call('INCR', KEYS[1])
if hits == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
    ttl = tonumber(ARGV[1])
end
return {hits, ttl}
`)

// RedisRateLimitStore shares counters between server processes.
type RedisRateLimitStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client, prefix: rateLimitKeyPrefix}
}

func (s *RedisRateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	result, err := incrementScript.Run(ctx, s.client, []string{s.prefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis increment: %w", err)
	}
	if len(result) != 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis rate limit result: %v", result)
	}

	resetAt := time.Now().Add(time.Duration(result[1]) * time.Millisecond)
	return int(result[0]), resetAt, nil
}

func (s *RedisRateLimitStore) ResetAll(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis delete: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}

	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis delete: %w", err)
		}
	}
	return nil
}
