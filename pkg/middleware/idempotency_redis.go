package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"staybook/pkg/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisIdempotencyPrefix = "idempotency:"

// RedisIdempotencyStore shares idempotency keys between service replicas.
// Redis failures degrade to "not cached" and are only logged.
type RedisIdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewRedisIdempotencyStore(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		rdb: rdb,
		ttl: ttl,
		log: log,
	}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*CachedResponse, bool) {
	data, err := s.rdb.Get(ctx, redisIdempotencyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("Failed to read idempotency key from Redis", "error", err)
		}
		return nil, false
	}

	var cached CachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		s.log.Warn("Discarding malformed idempotency entry", "error", err)
		return nil, false
	}
	return &cached, true
}

func (s *RedisIdempotencyStore) Set(ctx context.Context, key string, response *CachedResponse) {
	response.CreatedAt = time.Now()
	data, err := json.Marshal(response)
	if err != nil {
		s.log.Warn("Failed to encode idempotency entry", "error", err)
		return
	}

	if err := s.rdb.Set(ctx, redisIdempotencyPrefix+key, data, s.ttl).Err(); err != nil {
		s.log.Warn("Failed to store idempotency key in Redis", "error", err)
	}
}

// Stop is a no-op; the Redis client is owned by pkg/client.
func (s *RedisIdempotencyStore) Stop() {}
